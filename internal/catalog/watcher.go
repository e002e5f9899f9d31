package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	appLog "springwell/internal/log"
)

// DefaultDebounce coalesces the burst of events an editor or a site build
// produces when it rewrites a file.
const DefaultDebounce = 250 * time.Millisecond

// FileWatcher reports changes to a fixed set of files. It watches the parent
// directories so that atomic replace-by-rename is seen as well.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	onChange func([]string)
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewFileWatcher starts watching paths. onChange receives the changed files
// once per debounce window, on the watcher goroutine.
func NewFileWatcher(paths []string, debounce time.Duration, onChange func([]string)) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw := &FileWatcher{
		watcher:  watcher,
		files:    make(map[string]struct{}),
		debounce: debounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		fw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	fw.wg.Add(1)
	go fw.watch()
	return fw, nil
}

func (fw *FileWatcher) watch() {
	defer fw.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	pending := make(map[string]struct{})

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if _, watching := fw.files[name]; !watching {
				continue
			}
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			clear(pending)
			if fw.onChange != nil {
				fw.onChange(changed)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			appLog.Warn("file watcher error", "err", err)

		case <-fw.done:
			return
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (fw *FileWatcher) Close() error {
	close(fw.done)
	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}

// Watch refreshes the store whenever one of its local source files changes,
// until ctx is done. It returns immediately when every source is remote.
func (s *Store) Watch(ctx context.Context, debounce time.Duration) error {
	paths := s.LocalPaths()
	if len(paths) == 0 {
		return nil
	}

	fw, err := NewFileWatcher(paths, debounce, func(changed []string) {
		appLog.Info("source files changed, refreshing", "files", changed)
		_ = s.Refresh(ctx)
	})
	if err != nil {
		return err
	}
	appLog.Info("watching source files", "files", paths)

	<-ctx.Done()
	return fw.Close()
}
