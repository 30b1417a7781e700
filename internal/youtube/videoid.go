package youtube

import (
	"net/url"
	"strconv"
	"strings"
)

// VideoID extracts the video identifier from a YouTube URL. It understands
// youtu.be/<id>, /watch?v=<id>, /embed/<id> and /v/<id>, and returns ""
// for anything else.
func VideoID(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}

	switch strings.ToLower(u.Hostname()) {
	case "youtu.be":
		return strings.TrimPrefix(u.Path, "/")
	case "www.youtube.com", "youtube.com":
		switch {
		case u.Path == "/watch":
			return u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			return pathSegment(u.Path, 2)
		case strings.HasPrefix(u.Path, "/v/"):
			return pathSegment(u.Path, 2)
		}
	}

	return ""
}

// n-th element of path split on '/', "" when absent
func pathSegment(path string, n int) string {
	parts := strings.Split(path, "/")
	if n >= len(parts) {
		return ""
	}
	return parts[n]
}

// WatchURL links to a point in the video, in seconds.
func WatchURL(videoID string, seconds int) string {
	if seconds <= 0 {
		return "https://youtu.be/" + videoID
	}
	return "https://youtu.be/" + videoID + "?t=" + strconv.Itoa(seconds)
}
