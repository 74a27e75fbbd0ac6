// Package logging sets up the go-belt logger used across chorus.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/adrg/xdg"
	"github.com/facebookincubator/go-belt/tool/logger"
	beltlogrus "github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/sirupsen/logrus"
)

// LogFile is the path of the log file relative to $XDG_STATE_HOME.
const LogFile = "chorus/chorus.log"

// New returns a logger at level writing text lines to w.
func New(w io.Writer, level logger.Level) logger.Logger {
	lr := logrus.New()
	lr.SetOutput(w)
	lr.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return beltlogrus.New(lr).WithLevel(level)
}

// NewStderr returns a logger writing to stderr.
func NewStderr(level logger.Level) logger.Logger {
	return beltlogrus.Default().WithLevel(level)
}

// OpenFile returns a logger appending to the XDG state log file. The TUI
// owns the terminal, so it cannot log to stderr.
func OpenFile(level logger.Level) (logger.Logger, io.Closer, error) {
	path, err := xdg.StateFile(LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve log path: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f, nil
}

// Install makes l the default logger and returns ctx carrying it.
func Install(ctx context.Context, l logger.Logger) context.Context {
	logger.Default = func() logger.Logger {
		return l
	}
	return logger.CtxWithLogger(ctx, l)
}
