//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpConfigLoad,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpConfigLoad,
			err:      errors.New("invalid toml"),
			expected: "Failed to load configuration: invalid toml",
		},
		{
			name:     "recorder operation",
			op:       OpRecorderOpen,
			err:      errors.New("connection refused"),
			expected: "Failed to open audio input: connection refused",
		},
		{
			name:     "sink operation",
			op:       OpLastfmUpdate,
			err:      errors.New("invalid session key"),
			expected: "Failed to update Last.fm now playing: invalid session key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpRecorderOpen,
			context:  "clip.wav",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpRecorderOpen,
			context:  "clip.wav",
			err:      errors.New("no such file"),
			expected: "Failed to open audio input 'clip.wav': no such file",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpServe,
			context:  "",
			err:      errors.New("address in use"),
			expected: "Failed to serve identification requests: address in use",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpConfigLoad, OpRecorderOpen, OpInitialize,
		OpDetectStart, OpDetectResync,
		OpServe,
		OpMPRISStart, OpNotify, OpLastfmUpdate, OpShutdown,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}
			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
