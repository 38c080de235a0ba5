// Package probe provides ffprobe-based media inspection and the typed
// descriptor the compatibility policy consumes. Probe failures are
// file-level: callers treat them as "needs conversion" rather than aborting
// the batch.
package probe

import (
	"errors"
	"fmt"
)

// Descriptor holds the probed technical attributes of one media file.
// Immutable once built; never persisted.
type Descriptor struct {
	Path      string
	Codec     string
	Width     int
	Height    int
	FrameRate float64 // Decimal frames/sec, rounded to 2 places.
}

// Resolution returns "WxH" for display.
func (d *Descriptor) Resolution() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Error is the probe failure type: the external tool exited non-zero, the
// file was unreadable, or its output could not be parsed.
type Error struct {
	Path  string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

var errNoVideoStream = errors.New("no video stream")
