package content

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	siteerrors "github.com/vango-dev/frontpage/internal/errors"
)

// DefaultDebounce is how long Watch waits for file activity to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watch reloads the store whenever files under dir change, until ctx is
// done. Bursts of events within debounce trigger a single reload.
func (s *Store) Watch(ctx context.Context, dir string, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return siteerrors.New("E203").WithDetail("watch " + dir).Wrap(err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return siteerrors.New("E203").WithDetail("watch " + dir).Wrap(err)
	}
	for _, k := range Kinds() {
		sub := filepath.Join(dir, k.Dir())
		if info, err := os.Stat(sub); err == nil && info.IsDir() {
			if err := w.Add(sub); err != nil {
				s.logger.Warn("cannot watch directory", zap.String("dir", sub), zap.Error(err))
			}
		}
	}
	s.logger.Info("watching content", zap.String("dir", dir))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			// A kind directory created after startup needs its own watch.
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.Add(ev.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("content watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			if err := s.Reload(ctx); err != nil {
				s.logger.Error("content reload failed", zap.Error(err))
			}
		}
	}
}
