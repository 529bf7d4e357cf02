package audioproc

// Guard enforces the maximum clip duration. Uploads are rejected outright;
// recordings are truncated and re-encoded instead, since the user cannot
// re-cut a clip they already recorded.
type Guard struct {
	Decoder            *Decoder
	MaxDurationSeconds int
}

// CheckUpload measures data at its native sample rate and returns a
// *DurationError when the clip exceeds the maximum. A clip of exactly the
// maximum duration passes.
func (g *Guard) CheckUpload(data []byte) error {
	seconds, err := Probe(data)
	if err != nil {
		return err
	}
	if seconds > float64(g.MaxDurationSeconds) {
		return &DurationError{Measured: seconds, Max: g.MaxDurationSeconds}
	}
	return nil
}

// TruncateRecording decodes a recorded clip, cuts it down to the maximum
// duration and re-encodes it as WAV bytes for the rest of the pipeline.
func (g *Guard) TruncateRecording(data []byte) ([]byte, error) {
	wave, err := g.Decoder.DecodeMono(data)
	if err != nil {
		return nil, err
	}
	max := g.Decoder.SampleRate * g.MaxDurationSeconds
	if len(wave) > max {
		wave = wave[:max]
	}
	return EncodeWAV(wave, g.Decoder.SampleRate)
}
