package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/switchboard/internal/logger"
)

// WatchCredentials calls reset whenever a credential file in dir is
// created, written, removed or renamed, so the next tool call rebuilds its
// client from the new values. It blocks until ctx is cancelled.
func WatchCredentials(ctx context.Context, dir string, reset func()) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Debug("watching %s for credential changes", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isCredentialChange(event) {
				logger.Info("credentials changed (%s), reloading clients", filepath.Base(event.Name))
				reset()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("credential watcher: %v", err)
		}
	}
}

// isCredentialChange reports whether event touches a .env file.
func isCredentialChange(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".env") || strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
