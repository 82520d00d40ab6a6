// Package watch re-runs a conversion whenever its input file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce groups the bursts of events editors produce on save
const DefaultDebounce = 200 * time.Millisecond

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// File calls fn after every change to path until ctx is cancelled. The
// parent directory is watched so that files replaced by rename are still
// followed. Errors returned by fn are logged and watching continues.
func File(ctx context.Context, path string, debounce time.Duration, fn func() error, logger zerolog.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	log := logger.With().Str("file", abs).Logger()
	log.Debug().Msg("watching for changes")

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, abs) {
				continue
			}
			log.Debug().Str("op", event.Op.String()).Msg("fsnotify change detected")
			fire = time.After(debounce)
		case <-fire:
			fire = nil
			if err := fn(); err != nil {
				log.Warn().Err(err).Msg("conversion failed, keeping previous output")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func relevant(event fsnotify.Event, path string) bool {
	return filepath.Clean(event.Name) == path && event.Op&relevantOps != 0
}
