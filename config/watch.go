package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchEnvFile watches the configuration file and invokes onChange whenever
// it is written or replaced. The loaded configuration itself is immutable
// for the life of the process, so the callback is only used to tell the
// operator a restart is needed. Blocks until ctx is done.
func WatchEnvFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors replace .env by
	// rename, which removes a file-level watch.
	dir := filepath.Dir(path)
	if dir == "" {
		dir = "."
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}

	target := filepath.Clean(path)
	for {
		select {
		case event := <-watcher.Events:
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				onChange()
			}
		case <-watcher.Errors:
			// Watch errors are non-fatal; the overlay keeps serving with
			// its startup configuration.
		case <-ctx.Done():
			return nil
		}
	}
}
