package audioproc

// FixLength pads wave with trailing zeros to exactly length samples, or
// truncates it to the first length samples.
func FixLength(wave []float64, length int) []float64 {
	if len(wave) >= length {
		return wave[:length]
	}
	fixed := make([]float64, length)
	copy(fixed, wave)
	return fixed
}

// Preprocessor runs the full ingest chain: decode to mono at the target
// rate, trim silence, fix the window length.
type Preprocessor struct {
	Decoder         *Decoder
	FrameSize       int
	HopSize         int
	TrimThresholdDB float64
	WindowSamples   int
}

func (p *Preprocessor) Process(data []byte) ([]float64, error) {
	wave, err := p.Decoder.DecodeMono(data)
	if err != nil {
		return nil, err
	}
	trimmed := TrimSilence(wave, p.FrameSize, p.HopSize, p.TrimThresholdDB)
	return FixLength(trimmed, p.WindowSamples), nil
}
