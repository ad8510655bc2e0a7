// README: fsnotify watcher; invalidates the cached bundle when the file changes on disk.
package keys

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch invalidates the service cache whenever the bundle file is written,
// created, or removed externally. It blocks until ctx is cancelled. The parent
// directory is watched, not the file itself, so editors that replace the file
// (rename-over) are still observed.
func (s *Service) Watch(ctx context.Context, log *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(s.file)
	if err := w.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(s.file)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				s.Invalidate()
				log.Info("api key bundle changed on disk, cache invalidated",
					zap.String("file", target), zap.String("op", ev.Op.String()))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("key bundle watcher error", zap.Error(err))
		}
	}
}
