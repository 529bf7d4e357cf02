package audioproc

import (
	"errors"
	"math"
	"testing"
)

func wavBytes(t *testing.T, wave []float64, rate int) []byte {
	t.Helper()
	data, err := EncodeWAV(wave, rate)
	if err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}
	return data
}

func TestDecodeMonoRoundTrip(t *testing.T) {
	const rate = 44100
	want := sine(rate/2, 440, 0.5, rate)
	data := wavBytes(t, want, rate)

	d := &Decoder{SampleRate: rate}
	got, err := d.DecodeMono(data)
	if err != nil {
		t.Fatalf("DecodeMono() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("DecodeMono() returned %d samples, want %d", len(got), len(want))
	}

	// 16-bit quantization allows a small error per sample.
	for i := range want {
		if diff := math.Abs(got[i] - want[i]); diff > 1.0/16384 {
			t.Fatalf("sample %d differs by %v", i, diff)
		}
	}
}

func TestDecodeMonoResamples(t *testing.T) {
	const nativeRate, targetRate = 22050, 44100
	wave := sine(nativeRate, 440, 0.5, nativeRate) // one second
	data := wavBytes(t, wave, nativeRate)

	d := &Decoder{SampleRate: targetRate}
	got, err := d.DecodeMono(data)
	if err != nil {
		t.Fatalf("DecodeMono() error = %v", err)
	}

	// One second at the target rate, within resampler edge tolerance.
	if len(got) < targetRate-targetRate/100 || len(got) > targetRate+targetRate/100 {
		t.Errorf("DecodeMono() returned %d samples, want about %d", len(got), targetRate)
	}
}

func TestDecodeMonoRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "empty", data: nil, want: ErrUnsupportedFormat},
		{name: "text", data: []byte("definitely not audio data"), want: ErrUnsupportedFormat},
		{name: "truncated wav header", data: []byte("RIFF\x00\x00\x00\x00WAVE"), want: ErrNotDecodable},
	}

	d := &Decoder{SampleRate: 44100}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.DecodeMono(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("DecodeMono() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestProbe(t *testing.T) {
	const rate = 44100
	tests := []struct {
		name    string
		samples int
		want    float64
	}{
		{name: "one second", samples: rate, want: 1},
		{name: "three seconds", samples: 3 * rate, want: 3},
		{name: "fractional", samples: rate / 4, want: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := wavBytes(t, make([]float64, tt.samples), rate)
			got, err := Probe(data)
			if err != nil {
				t.Fatalf("Probe() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Probe() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSniffContainer(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want container
	}{
		{name: "wav", data: []byte("RIFF\x24\x00\x00\x00WAVEfmt "), want: containerWAV},
		{name: "flac", data: []byte("fLaC\x00\x00\x00\x22"), want: containerFLAC},
		{name: "mp3 with id3", data: []byte("ID3\x04\x00\x00\x00\x00\x00\x00"), want: containerMP3},
		{name: "mp3 frame sync", data: []byte{0xFF, 0xFB, 0x90, 0x00}, want: containerMP3},
		{name: "unknown", data: []byte("OggS"), want: containerUnknown},
		{name: "short", data: []byte{0x00}, want: containerUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniffContainer(tt.data); got != tt.want {
				t.Errorf("sniffContainer() = %v, want %v", got, tt.want)
			}
		})
	}
}
