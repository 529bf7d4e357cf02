package audioproc

import (
	"errors"
	"fmt"
)

var (
	// ErrNotDecodable reports audio bytes no codec could make sense of.
	ErrNotDecodable = errors.New("audio could not be decoded")

	// ErrUnsupportedFormat reports a container we do not recognize at all.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrEmptyWaveform reports a clip that decoded to zero samples.
	ErrEmptyWaveform = errors.New("audio decoded to an empty waveform")
)

// DurationError is returned by the upload duration guard when a clip is
// longer than the configured maximum.
type DurationError struct {
	Measured float64 // seconds, at the clip's native sample rate
	Max      int     // seconds
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("clip is %.2fs long, maximum is %ds", e.Measured, e.Max)
}
