package capture

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestEncodeWAV_Header(t *testing.T) {
	samples := make([]float32, 441)
	for i := range samples {
		samples[i] = 0.25
	}

	data, err := EncodeWAV(samples, 44100, 0)
	if err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE header: %q", data[:12])
	}
	if ch := binary.LittleEndian.Uint16(data[22:24]); ch != 1 {
		t.Errorf("channels = %d, want 1", ch)
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 44100 {
		t.Errorf("sample rate = %d, want 44100", rate)
	}
	if bits := binary.LittleEndian.Uint16(data[34:36]); bits != 16 {
		t.Errorf("bits per sample = %d, want 16", bits)
	}
	if want := 44 + len(samples)*2; len(data) != want {
		t.Errorf("len(data) = %d, want %d", len(data), want)
	}
}

func TestEncodeWAV_Empty(t *testing.T) {
	_, err := EncodeWAV(nil, 44100, 0)
	if !errors.Is(err, ErrEmptySample) {
		t.Errorf("err = %v, want ErrEmptySample", err)
	}
}

func TestEncodeWAV_GainClips(t *testing.T) {
	quiet, err := EncodeWAV([]float32{0.5}, 8000, 0)
	if err != nil {
		t.Fatal(err)
	}
	loud, err := EncodeWAV([]float32{0.5}, 8000, 3)
	if err != nil {
		t.Fatal(err)
	}

	q := int16(binary.LittleEndian.Uint16(quiet[44:46]))
	l := int16(binary.LittleEndian.Uint16(loud[44:46]))
	if l <= q {
		t.Errorf("gain did not amplify: quiet=%d loud=%d", q, l)
	}
	// 0.5 * 4 clips to full scale.
	if l < 32000 {
		t.Errorf("loud sample = %d, want near full scale", l)
	}
}
