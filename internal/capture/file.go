package capture

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileRecorder replays a prerecorded clip as if it were captured live.
// Each Record waits the full duration, then returns the file contents.
type FileRecorder struct {
	path string
}

var _ Recorder = (*FileRecorder)(nil)

// NewFileRecorder creates a recorder reading path on every Record.
func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{path: path}
}

// Record waits d, then returns the clip.
func (r *FileRecorder) Record(ctx context.Context, d time.Duration) (Sample, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return Sample{}, ctx.Err()
	case <-timer.C:
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return Sample{}, fmt.Errorf("read sample: %w", err)
	}
	if len(data) == 0 {
		return Sample{}, ErrEmptySample
	}

	return Sample{Data: data, MIMEType: mimeTypeOf(r.path), Duration: d}, nil
}

func mimeTypeOf(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".wav" {
		return "audio/wav"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Close implements Recorder.
func (r *FileRecorder) Close() error {
	return nil
}
