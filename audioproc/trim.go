package audioproc

import "math"

// TrimSilence drops leading and trailing regions whose frame energy falls
// more than thresholdDB below the loudest frame. Frames are frameSize
// samples, hopSize apart. A fully silent clip trims to nothing.
func TrimSilence(wave []float64, frameSize, hopSize int, thresholdDB float64) []float64 {
	if len(wave) == 0 {
		return wave
	}
	if frameSize > len(wave) {
		frameSize = len(wave)
	}

	var rms []float64
	for start := 0; start+frameSize <= len(wave); start += hopSize {
		rms = append(rms, frameRMS(wave[start:start+frameSize]))
	}

	peak := 0.0
	for _, v := range rms {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return wave[:0]
	}
	threshold := peak * math.Pow(10, -thresholdDB/20)

	first, last := -1, -1
	for i, v := range rms {
		if v >= threshold {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return wave[:0]
	}

	start := first * hopSize
	end := last*hopSize + frameSize
	if end > len(wave) {
		end = len(wave)
	}
	return wave[start:end]
}

func frameRMS(frame []float64) float64 {
	var sum float64
	for _, v := range frame {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}
