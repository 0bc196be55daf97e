package browser

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch blocks until ctx is done, calling fn with the current contents of s
// every time another writer changes them. It is the storage event of a
// second tab. s must live on the OS filesystem.
func Watch(ctx context.Context, s *Storage, fn func(items map[string]string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}
	defer watcher.Close()

	// Writes replace the file by rename, so the directory is watched rather
	// than the file itself.
	dir := filepath.Dir(s.Path())
	if err := s.fs.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	last, err := s.Snapshot()
	if err != nil {
		return err
	}
	slog.Debug("Watching storage", "path", s.Path())

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.Path()) {
				continue
			}

			current, err := s.Snapshot()
			if err != nil {
				slog.Warn("Failed to reload storage", "path", s.Path(), "error", err)
				continue
			}
			if maps.Equal(current, last) {
				continue
			}
			last = current
			fn(current)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("File system watcher error", "error", err)
		}
	}
}
