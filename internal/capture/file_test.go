package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/synctest"
	"time"
)

func writeClip(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileRecorder_WaitsFullDuration(t *testing.T) {
	path := writeClip(t, "clip.wav", []byte("RIFFdata"))

	synctest.Test(t, func(t *testing.T) {
		r := NewFileRecorder(path)
		start := time.Now()

		sample, err := r.Record(context.Background(), 12*time.Second)
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if elapsed := time.Since(start); elapsed != 12*time.Second {
			t.Errorf("elapsed = %v, want 12s", elapsed)
		}
		if string(sample.Data) != "RIFFdata" {
			t.Errorf("Data = %q", sample.Data)
		}
		if sample.MIMEType != "audio/wav" {
			t.Errorf("MIMEType = %q", sample.MIMEType)
		}
		if sample.Duration != 12*time.Second {
			t.Errorf("Duration = %v", sample.Duration)
		}
	})
}

func TestFileRecorder_Canceled(t *testing.T) {
	path := writeClip(t, "clip.wav", []byte("RIFF"))

	synctest.Test(t, func(t *testing.T) {
		r := NewFileRecorder(path)
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(time.Second, cancel)

		_, err := r.Record(ctx, 12*time.Second)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestFileRecorder_EmptyFile(t *testing.T) {
	path := writeClip(t, "clip.wav", nil)

	synctest.Test(t, func(t *testing.T) {
		_, err := NewFileRecorder(path).Record(context.Background(), time.Second)
		if !errors.Is(err, ErrEmptySample) {
			t.Errorf("err = %v, want ErrEmptySample", err)
		}
	})
}

func TestFileRecorder_Missing(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		_, err := NewFileRecorder("/nonexistent/clip.wav").Record(context.Background(), time.Second)
		if err == nil {
			t.Error("expected error for missing file")
		}
	})
}
