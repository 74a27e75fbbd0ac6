package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/facebookincubator/go-belt/tool/logger"
)

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	ctx := logger.CtxWithLogger(context.Background(), New(&buf, logger.LevelInfo))

	logger.Debugf(ctx, "hidden %d", 1)
	logger.Infof(ctx, "shown %d", 2)
	logger.FromCtx(ctx).Flush()

	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Errorf("debug line logged at info level: %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("info line missing: %q", out)
	}
}

func TestInstall_SetsDefault(t *testing.T) {
	prev := logger.Default
	t.Cleanup(func() { logger.Default = prev })

	var buf bytes.Buffer
	ctx := Install(context.Background(), New(&buf, logger.LevelDebug))

	logger.Infof(ctx, "from context")
	logger.Default().Infof("from default")

	out := buf.String()
	if !strings.Contains(out, "from context") {
		t.Errorf("context logger not installed: %q", out)
	}
	if !strings.Contains(out, "from default") {
		t.Errorf("default logger not replaced: %q", out)
	}
}
