package search

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrMalformedTimestamp = errors.New("malformed timestamp")

// ToSeconds converts an H:MM:SS.fff caption timestamp to whole seconds.
// Fractional seconds are truncated, never rounded.
func ToSeconds(ts string) (int, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
	}

	var values [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, ts)
		}
		values[i] = v
	}

	total := values[0]*3600 + values[1]*60 + values[2]
	if math.Abs(total) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q out of range", ErrMalformedTimestamp, ts)
	}
	return int(total), nil
}
