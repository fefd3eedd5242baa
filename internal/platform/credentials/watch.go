package credentials

import (
	"context"
	"path/filepath"

	"launchdeck/internal/platform/logger"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the keyring whenever its file is written or replaced, until ctx is done.
// The parent directory is watched so rename-over saves keep being seen.
// A failed reload is logged and the previous keys stay active
func (k *Keyring) Watch(ctx context.Context) error {
	if k.path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	target := filepath.Clean(k.path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	log := logger.Named("credentials")
	log.Info().Str("path", k.path).Msg("watching keyring")
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
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := k.Reload(); err != nil {
				log.Error().Err(err).Msg("keyring reload failed; keeping previous keys")
				continue
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("keyring watcher error")
		}
	}
}
