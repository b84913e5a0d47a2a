package faq

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the store whenever one of its source files is rewritten.
// Because Load publishes complete snapshots, readers keep serving the old
// set until the new one is fully indexed.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	logger  *zap.Logger
}

// NewWatcher creates a watcher over the store's currently loaded sources.
func NewWatcher(store *Store, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{store: store, watcher: fw, logger: logger}, nil
}

// Start begins watching. It watches the parent directories of the loaded
// sources, since editors commonly replace files instead of writing in place.
func (w *Watcher) Start(ctx context.Context) error {
	sources := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, src := range w.store.Sources() {
		sources[filepath.Clean(src)] = true
		dirs[filepath.Dir(src)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				path := filepath.Clean(event.Name)
				if !sources[path] {
					continue
				}
				w.logger.Info("faq source changed, reloading", zap.String("path", path))
				if err := w.store.Load(path); err != nil {
					w.logger.Error("faq reload failed", zap.Error(err), zap.String("path", path))
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Error("faq watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
