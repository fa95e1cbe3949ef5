package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigure_WritesJSONAndFile(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	closer, err := Configure(Config{Level: WarnLevel, Output: &out, Directory: dir})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	t.Cleanup(func() {
		_ = closer.Close()
		_, _ = Configure(Config{Level: InfoLevel, Output: os.Stdout})
	})

	Info().Msg("filtered out")
	Warn().Str("employee_id", "jdoe1").Msg("kept")

	if strings.Contains(out.String(), "filtered out") {
		t.Error("info entry should be below the configured level")
	}
	if !strings.Contains(out.String(), `"employee_id":"jdoe1"`) {
		t.Errorf("stdout missing structured field: %s", out.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "kept") {
		t.Errorf("log file missing entry: %s", data)
	}
}
