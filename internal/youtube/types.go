package youtube

import "errors"

var (
	ErrNoCaptions        = errors.New("no caption track available")
	ErrVideoUnavailable  = errors.New("video unavailable")
	ErrTooLarge          = errors.New("caption response too large")
	ErrUnexpectedStatus  = errors.New("unexpected HTTP status")
	ErrCaptionsNotFound  = errors.New("caption track not found")
	errExtractorNotFound = errors.New("yt-dlp executable not found")
)

// how the caption track was produced
type Kind string

const (
	KindNone      Kind = ""
	KindManual    Kind = "manual"
	KindAutomatic Kind = "automatic"
)

// why a fetch produced no captions
type Failure string

const (
	FailureNone       Failure = ""
	FailureNetwork    Failure = "network-error"
	FailureNotFound   Failure = "not-found"
	FailureNoCaptions Failure = "no-captions"
	FailureExtractor  Failure = "extractor-error"
)

// Result of a caption fetch. A failed fetch is a Result with empty
// Captions and a Failure tag, never an error.
type Result struct {
	VideoID  string
	Captions string
	Kind     Kind
	Failure  Failure
	Err      error
}

func (r Result) OK() bool {
	return r.Failure == FailureNone
}

// cacheable reports whether repeating the fetch would give the same answer.
func (r Result) cacheable() bool {
	switch r.Failure {
	case FailureNone, FailureNotFound, FailureNoCaptions:
		return true
	default:
		return false
	}
}

// classify maps an error from the fetch path to a Failure tag.
func classify(err error) Failure {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrNoCaptions):
		return FailureNoCaptions
	case errors.Is(err, ErrVideoUnavailable), errors.Is(err, ErrCaptionsNotFound):
		return FailureNotFound
	case errors.Is(err, errExtractorNotFound), errors.Is(err, errExtractorFailed):
		return FailureExtractor
	default:
		return FailureNetwork
	}
}
