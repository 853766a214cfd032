package testing

import (
	"strings"
	"sync/atomic"
)

// TrackingReader is a string-backed io.ReadCloser that counts Close calls
type TrackingReader struct {
	*strings.Reader
	closes atomic.Int32
}

// NewTrackingReader returns a reader over the given lines joined by "\n"
func NewTrackingReader(lines ...string) *TrackingReader {
	text := strings.Join(lines, "\n")
	if len(lines) > 0 {
		text += "\n"
	}
	return &TrackingReader{Reader: strings.NewReader(text)}
}

// Close records the call and always succeeds
func (r *TrackingReader) Close() error {
	r.closes.Add(1)
	return nil
}

// Closed reports whether Close was called at least once
func (r *TrackingReader) Closed() bool {
	return r.closes.Load() > 0
}

// CloseCount returns how many times Close was called
func (r *TrackingReader) CloseCount() int {
	return int(r.closes.Load())
}
