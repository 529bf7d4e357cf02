package audioproc

import (
	"errors"
	"math"
	"testing"
)

func TestGuardCheckUpload(t *testing.T) {
	const rate = 44100
	const maxSeconds = 6

	tests := []struct {
		name     string
		samples  int
		wantErr  bool
		measured float64
	}{
		{name: "well under limit", samples: 2 * rate, wantErr: false},
		{name: "exactly at limit", samples: maxSeconds * rate, wantErr: false},
		{name: "one sample over", samples: maxSeconds*rate + 1, wantErr: true, measured: float64(maxSeconds*rate+1) / rate},
		{name: "far over limit", samples: 10 * rate, wantErr: true, measured: 10},
	}

	g := &Guard{
		Decoder:            &Decoder{SampleRate: rate},
		MaxDurationSeconds: maxSeconds,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := wavBytes(t, make([]float64, tt.samples), rate)
			err := g.CheckUpload(data)

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("CheckUpload() error = %v, want nil", err)
				}
				return
			}

			var durErr *DurationError
			if !errors.As(err, &durErr) {
				t.Fatalf("CheckUpload() error = %v, want *DurationError", err)
			}
			if durErr.Max != maxSeconds {
				t.Errorf("DurationError.Max = %d, want %d", durErr.Max, maxSeconds)
			}
			if math.Abs(durErr.Measured-tt.measured) > 1e-9 {
				t.Errorf("DurationError.Measured = %v, want %v", durErr.Measured, tt.measured)
			}
		})
	}
}

func TestGuardCheckUploadUndecodable(t *testing.T) {
	g := &Guard{
		Decoder:            &Decoder{SampleRate: 44100},
		MaxDurationSeconds: 6,
	}
	if err := g.CheckUpload([]byte("not audio")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("CheckUpload() error = %v, want %v", err, ErrUnsupportedFormat)
	}
}

func TestGuardTruncateRecording(t *testing.T) {
	const rate = 44100
	const maxSeconds = 6

	g := &Guard{
		Decoder:            &Decoder{SampleRate: rate},
		MaxDurationSeconds: maxSeconds,
	}

	tests := []struct {
		name        string
		seconds     int
		wantSamples int
	}{
		{name: "short clip untouched", seconds: 2, wantSamples: 2 * rate},
		{name: "long clip truncated", seconds: 10, wantSamples: maxSeconds * rate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wave := sine(tt.seconds*rate, 440, 0.5, rate)
			data := wavBytes(t, wave, rate)

			out, err := g.TruncateRecording(data)
			if err != nil {
				t.Fatalf("TruncateRecording() error = %v", err)
			}

			// The output must be decodable WAV of the expected length.
			got, err := g.Decoder.DecodeMono(out)
			if err != nil {
				t.Fatalf("re-encoded recording not decodable: %v", err)
			}
			if len(got) != tt.wantSamples {
				t.Errorf("truncated recording has %d samples, want %d", len(got), tt.wantSamples)
			}
		})
	}
}
