package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLoggerCapturesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(Disable)

	Warnw("weather provider fetch failed", "provider", "openmeteo")
	Debugw("throttled")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel || entries[0].ContextMap()["provider"] != "openmeteo" {
		t.Fatalf("entry = %+v", entries[0])
	}
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky.log")
	if err := InitFile(path, false); err != nil {
		t.Fatalf("InitFile: %v", err)
	}
	t.Cleanup(Disable)

	Infow("observer located", "lat", 1.5)
	Debugw("hidden at info level")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "observer located") || strings.Contains(out, "hidden at info level") {
		t.Fatalf("log output = %q", out)
	}
}
