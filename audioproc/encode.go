package audioproc

import (
	"errors"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// EncodeWAV renders a mono waveform as 16-bit PCM WAV bytes.
func EncodeWAV(wave []float64, sampleRate int) ([]byte, error) {
	var buf memWriteSeeker
	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 1,
		Precision:   2,
	}
	if err := wav.Encode(&buf, &waveStreamer{wave: wave}, format); err != nil {
		return nil, err
	}
	return buf.data, nil
}

type waveStreamer struct {
	wave []float64
	pos  int
}

func (ws *waveStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) && ws.pos < len(ws.wave) {
		v := ws.wave[ws.pos]
		samples[n][0], samples[n][1] = v, v
		ws.pos++
		n++
	}
	return n, n > 0
}

func (ws *waveStreamer) Err() error { return nil }

// memWriteSeeker satisfies io.WriteSeeker over an in-memory buffer, which
// the WAV encoder needs to back-patch the header length fields.
type memWriteSeeker struct {
	data []byte
	pos  int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if need := m.pos + len(p); need > len(m.data) {
		if need > cap(m.data) {
			grown := make([]byte, need, need*2)
			copy(grown, m.data)
			m.data = grown
		} else {
			m.data = m.data[:need]
		}
	}
	copy(m.data[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(m.pos) + offset
	case io.SeekEnd:
		pos = int64(len(m.data)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if pos < 0 {
		return 0, errors.New("negative seek position")
	}
	m.pos = int(pos)
	return pos, nil
}
