// Package audioproc turns uploaded or recorded audio bytes into the
// fixed-length mono waveform the feature extractor expects: decode,
// downmix, resample, silence trim, pad or truncate.
package audioproc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

const resampleQuality = 4

type container int

const (
	containerUnknown container = iota
	containerWAV
	containerMP3
	containerFLAC
)

// Decoder decodes WAV, MP3 or FLAC bytes to a mono waveform at a fixed
// target sample rate.
type Decoder struct {
	SampleRate int
}

func sniffContainer(data []byte) container {
	if len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")) {
		return containerWAV
	}
	if len(data) >= 4 && bytes.Equal(data[:4], []byte("fLaC")) {
		return containerFLAC
	}
	if len(data) >= 3 && bytes.Equal(data[:3], []byte("ID3")) {
		return containerMP3
	}
	// Bare MPEG frame sync, no ID3 header.
	if len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0 {
		return containerMP3
	}
	return containerUnknown
}

func openStream(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	r := io.NopCloser(bytes.NewReader(data))
	switch sniffContainer(data) {
	case containerWAV:
		return wav.Decode(r)
	case containerMP3:
		return mp3.Decode(r)
	case containerFLAC:
		return flac.Decode(r)
	default:
		return nil, beep.Format{}, ErrUnsupportedFormat
	}
}

// DecodeMono decodes data into mono samples at the decoder's target rate.
// Stereo input is downmixed by channel average.
func (d *Decoder) DecodeMono(data []byte) ([]float64, error) {
	stream, format, err := openStream(data)
	if err != nil {
		if err == ErrUnsupportedFormat {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrNotDecodable, err)
	}
	defer stream.Close()

	var s beep.Streamer = stream
	if int(format.SampleRate) != d.SampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, beep.SampleRate(d.SampleRate), stream)
	}

	wave := drainMono(s)
	if len(wave) == 0 {
		return nil, ErrEmptyWaveform
	}
	return wave, nil
}

// Probe decodes only enough of data to measure its duration in seconds at
// the clip's native sample rate.
func Probe(data []byte) (float64, error) {
	stream, format, err := openStream(data)
	if err != nil {
		if err == ErrUnsupportedFormat {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", ErrNotDecodable, err)
	}
	defer stream.Close()

	return float64(stream.Len()) / float64(format.SampleRate), nil
}

func drainMono(s beep.Streamer) []float64 {
	out := make([]float64, 0, 4096)
	buf := make([][2]float64, 1024)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, (buf[i][0]+buf[i][1])/2)
		}
		if !ok {
			return out
		}
	}
}
