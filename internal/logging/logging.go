// Package logging routes the standard logger to the console and to a rotating
// log file. Lines tagged [DEBUG] only reach the console when debug is enabled.
package logging

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const debugTag = "[DEBUG]"

type Options struct {
	Path  string
	Debug bool
}

// Setup installs the combined writer on the standard logger and returns the
// file sink so callers can close it on shutdown.
func Setup(opts Options) io.Closer {
	var console io.Writer = os.Stderr
	if !opts.Debug {
		console = &levelFilter{w: os.Stderr}
	}

	if opts.Path == "" {
		log.SetOutput(console)
		return nopCloser{}
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		log.Printf("[WARN] Cannot create log directory, logging to console only: %v", err)
		log.SetOutput(console)
		return nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    5, // megabytes
		MaxBackups: 5,
	}
	log.SetOutput(io.MultiWriter(console, file))
	log.SetFlags(log.LstdFlags)
	return file
}

// levelFilter drops [DEBUG] lines. The standard logger issues one Write per
// entry, so filtering per call is enough.
type levelFilter struct {
	w io.Writer
}

func (f *levelFilter) Write(p []byte) (int, error) {
	if bytes.Contains(p, []byte(debugTag)) {
		return len(p), nil
	}
	return f.w.Write(p)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
