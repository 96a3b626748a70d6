package persona

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads r from path whenever the file changes, until ctx is done.
// A file that fails to parse is logged and the previous definitions stay
// in place.
func Watch(ctx context.Context, path string, r *Registry) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create persona watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace the file, so watch its directory.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Printf("[INFO] Watching %s for persona changes", path)

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			reload(path, r)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] Persona watcher error: %v", err)
		}
	}
}

func reload(path string, r *Registry) {
	next, err := LoadFile(path)
	if err != nil {
		log.Printf("[ERR] Keeping previous personas, reload of %s failed: %v", path, err)
		return
	}
	r.Replace(next)
	log.Printf("[INFO] Reloaded %d personas from %s", len(next.personas), path)
}
