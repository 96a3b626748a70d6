package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFilterDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	f := &levelFilter{w: &buf}

	n, err := f.Write([]byte("2024/01/01 [DEBUG] noisy\n"))
	if err != nil || n == 0 {
		t.Fatalf("write debug: n=%d err=%v", n, err)
	}
	if _, err := f.Write([]byte("2024/01/01 [INFO] kept\n")); err != nil {
		t.Fatalf("write info: %v", err)
	}

	if strings.Contains(buf.String(), "noisy") {
		t.Fatalf("debug line leaked: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("info line missing: %q", buf.String())
	}
}

func TestSetupWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bot.log")
	closer := Setup(Options{Path: path})
	defer func() {
		closer.Close()
		log.SetOutput(os.Stderr)
	}()

	log.Printf("[DEBUG] only in file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "only in file") {
		t.Fatalf("expected debug line in file, got %q", data)
	}
}
