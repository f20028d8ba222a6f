// Package watch turns filesystem changes under the notes directory into a
// host-wide reload broadcast.
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/treykane/paneboard/internal/catalog"
	"github.com/treykane/paneboard/internal/logging"
)

// DefaultDebounce coalesces bursts of events (editors often write a file in
// several steps) into one reload.
const DefaultDebounce = 250 * time.Millisecond

var log = logging.New("watch")

// Broadcaster fans a reload signal out to subscribers. Notify can be called
// directly, and Watch additionally fires it for filesystem changes.
type Broadcaster struct {
	debounce time.Duration

	mu     sync.Mutex
	subs   map[int]func()
	nextID int
	timer  *time.Timer

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// New returns a broadcaster. A non-positive debounce uses DefaultDebounce.
func New(debounce time.Duration) *Broadcaster {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Broadcaster{debounce: debounce, subs: map[int]func(){}}
}

// Subscribe registers fn and returns the function that removes it.
// Subscribers may be called from a background goroutine.
func (b *Broadcaster) Subscribe(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Subscribers returns the number of registered subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Notify calls every subscriber once, synchronously.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// schedule notifies after the debounce window, restarting it on every call.
func (b *Broadcaster) schedule() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, b.Notify)
}

// Watch starts watching root and every non-hidden directory below it.
// Directories created later are added as they appear.
func (b *Broadcaster) Watch(root string) error {
	if b.watcher != nil {
		return errors.New("already watching")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(w, root); err != nil {
		_ = w.Close()
		return err
	}
	b.watcher = w
	b.done = make(chan struct{})
	b.wg.Add(1)
	go b.loop()
	log.Info("watching notes directory", "root", root)
	return nil
}

func (b *Broadcaster) loop() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return
		case event, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			if ignored(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(b.watcher, event.Name); err != nil {
						log.Warn("watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			b.schedule()
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", "error", err)
		}
	}
}

// Close stops watching and cancels a pending notification.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.mu.Unlock()
	if b.watcher == nil {
		return nil
	}
	close(b.done)
	err := b.watcher.Close()
	b.wg.Wait()
	b.watcher = nil
	return err
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %q: %w", p, err)
		}
		return nil
	})
}

// ignored reports whether an event on p can be skipped. Dot-files are
// editor swap files and the like, except for category sidecars, which change
// how the sidebar looks.
func ignored(p string) bool {
	name := filepath.Base(p)
	return strings.HasPrefix(name, ".") && name != catalog.CategoryMetaFile
}
