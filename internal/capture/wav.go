package capture

import (
	"fmt"
	"io"
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/wav"
)

// EncodeWAV encodes mono float samples as 16-bit PCM WAV. A non-zero gain
// amplifies the signal by 1+gain before encoding; output is clipped to [-1, 1].
func EncodeWAV(samples []float32, sampleRate int, gain float64) ([]byte, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySample
	}

	var streamer beep.Streamer = &monoStreamer{samples: samples}
	if gain != 0 {
		streamer = &effects.Gain{Streamer: streamer, Gain: gain}
	}
	streamer = clip(streamer)

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 1,
		Precision:   2,
	}

	// wav.Encode needs to seek back to patch the header.
	f, err := os.CreateTemp("", "chorus-sample-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if err := wav.Encode(f, streamer, format); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind: %w", err)
	}
	return io.ReadAll(f)
}

// monoStreamer plays back a mono buffer on both beep channels.
type monoStreamer struct {
	samples []float32
	pos     int
}

func (m *monoStreamer) Stream(buf [][2]float64) (int, bool) {
	if m.pos >= len(m.samples) {
		return 0, false
	}
	n := 0
	for n < len(buf) && m.pos < len(m.samples) {
		v := float64(m.samples[m.pos])
		buf[n][0], buf[n][1] = v, v
		n++
		m.pos++
	}
	return n, true
}

func (m *monoStreamer) Err() error {
	return nil
}

func clip(s beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		n, ok := s.Stream(buf)
		for i := range buf[:n] {
			for c := range buf[i] {
				buf[i][c] = max(-1, min(1, buf[i][c]))
			}
		}
		return n, ok
	})
}
