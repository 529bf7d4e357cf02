// Package features computes the normalized log-mel spectrogram the
// classifier consumes.
package features

import (
	"errors"
	"fmt"
	"math"

	"github.com/r9y9/gossp/stft"
)

const (
	// aminPower floors power values before the log so silence cannot
	// produce -Inf.
	aminPower = 1e-10

	// topDB clamps the dynamic range below the clip's own peak.
	topDB = 80.0
)

var ErrNoWaveform = errors.New("no waveform to extract features from")

// Extractor converts a fixed-length waveform into a mel-band power grid on
// a log scale, standardized to zero mean and unit variance.
type Extractor struct {
	SampleRate int
	NumMels    int
	FFTSize    int
	HopSize    int

	filterbank [][]float64
}

func NewExtractor(sampleRate, numMels, fftSize, hopSize int) *Extractor {
	return &Extractor{
		SampleRate: sampleRate,
		NumMels:    numMels,
		FFTSize:    fftSize,
		HopSize:    hopSize,
		filterbank: melFilterbank(numMels, fftSize, sampleRate),
	}
}

// Frames is the number of STFT frames produced for a waveform of n samples.
func (e *Extractor) Frames(n int) int {
	return 1 + (n-e.FFTSize)/e.HopSize
}

// LogMel computes the standardized log-mel spectrogram of wave. The result
// has shape [NumMels][Frames(len(wave))] regardless of the audio content.
func (e *Extractor) LogMel(wave []float64) ([][]float64, error) {
	if len(wave) == 0 {
		return nil, ErrNoWaveform
	}
	if len(wave) < e.FFTSize {
		return nil, fmt.Errorf("waveform of %d samples is shorter than one FFT window (%d)", len(wave), e.FFTSize)
	}

	s := stft.New(e.HopSize, e.FFTSize)
	spectra := s.STFT(wave)

	frames := len(spectra)
	bins := e.FFTSize/2 + 1

	power := make([][]float64, frames)
	for t, spec := range spectra {
		row := make([]float64, bins)
		for k := 0; k < bins; k++ {
			re, im := real(spec[k]), imag(spec[k])
			row[k] = re*re + im*im
		}
		power[t] = row
	}

	grid := make([][]float64, e.NumMels)
	for m := 0; m < e.NumMels; m++ {
		grid[m] = make([]float64, frames)
		for t := 0; t < frames; t++ {
			var sum float64
			for k, w := range e.filterbank[m] {
				if w != 0 {
					sum += w * power[t][k]
				}
			}
			grid[m][t] = sum
		}
	}

	powerToDB(grid)
	Standardize(grid)
	return grid, nil
}

// powerToDB converts power values to decibels referenced to the grid's own
// peak, floored at aminPower and clamped to a topDB dynamic range.
func powerToDB(grid [][]float64) {
	ref := aminPower
	for _, row := range grid {
		for _, v := range row {
			if v > ref {
				ref = v
			}
		}
	}
	refDB := 10 * math.Log10(ref)

	for _, row := range grid {
		for i, v := range row {
			if v < aminPower {
				v = aminPower
			}
			db := 10*math.Log10(v) - refDB
			if db < -topDB {
				db = -topDB
			}
			row[i] = db
		}
	}
}

// Standardize shifts grid to zero mean and, when the standard deviation is
// nonzero, scales it to unit variance. A constant grid is only centered, so
// no NaN or Inf can appear.
func Standardize(grid [][]float64) {
	var sum float64
	var count int
	for _, row := range grid {
		for _, v := range row {
			sum += v
			count++
		}
	}
	if count == 0 {
		return
	}
	mean := sum / float64(count)

	var variance float64
	for _, row := range grid {
		for _, v := range row {
			d := v - mean
			variance += d * d
		}
	}
	std := math.Sqrt(variance / float64(count))

	for _, row := range grid {
		for i := range row {
			row[i] -= mean
			if std != 0 {
				row[i] /= std
			}
		}
	}
}

func hzToMel(hz float64) float64 {
	return 1127 * math.Log(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Exp(mel/1127) - 1)
}

// melFilterbank builds NumMels triangular filters spanning 0..sampleRate/2
// with centers evenly spaced on the mel scale.
func melFilterbank(numMels, fftSize, sampleRate int) [][]float64 {
	bins := fftSize/2 + 1
	melMax := hzToMel(float64(sampleRate) / 2)

	points := make([]float64, numMels+2)
	for i := range points {
		points[i] = melToHz(melMax * float64(i) / float64(numMels+1))
	}

	bank := make([][]float64, numMels)
	for m := 0; m < numMels; m++ {
		lower, center, upper := points[m], points[m+1], points[m+2]
		row := make([]float64, bins)
		for k := 0; k < bins; k++ {
			f := float64(k) * float64(sampleRate) / float64(fftSize)
			switch {
			case f <= lower || f >= upper:
				// outside the triangle
			case f <= center:
				row[k] = (f - lower) / (center - lower)
			default:
				row[k] = (upper - f) / (upper - center)
			}
		}
		bank[m] = row
	}
	return bank
}
