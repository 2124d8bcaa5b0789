package file

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watch calls onChange whenever the file for key is created, written or
// replaced, until ctx is cancelled. Bursts of events within debounce are
// collapsed into one call. The Store's own writes are reported too; callers
// are expected to ignore values they already hold.
//
// The directory is watched rather than the file, because Put replaces the
// file by rename and a watch on the old inode would go silent.
func (s *Store) Watch(ctx context.Context, key string, debounce time.Duration, onChange func()) error {
	if err := validKey(key); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	target := filepath.Clean(s.Path(key))
	go func() {
		defer watcher.Close()

		var timer *time.Timer
		var timerC <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
					timerC = timer.C
				} else {
					timer.Reset(debounce)
				}

			case <-timerC:
				timer = nil
				timerC = nil
				onChange()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Slot watcher error", "key", key, "error", err)
			}
		}
	}()

	return nil
}
