package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is the quiet period after the last write to a file before it is
// reported; editors tend to write a file several times per save.
const Debounce = 100 * time.Millisecond

// Watcher reports content files (.yaml, .yml, .tengo) that changed.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func New(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

type fired struct {
	name string
	seq  int
}

func (w *Watcher) run() {
	defer close(w.done)
	fire := make(chan fired)
	seq := 0
	pending := make(map[string]int)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !IsContentFile(event.Name) {
				continue
			}
			// Each event restarts the quiet period; only the last one fires.
			if t, ok := timers[event.Name]; ok {
				t.Stop()
			}
			seq++
			pending[event.Name] = seq
			f := fired{event.Name, seq}
			timers[event.Name] = time.AfterFunc(Debounce, func() {
				select {
				case fire <- f:
				case <-w.closeCh:
				}
			})
		case f := <-fire:
			// A stopped timer may already have been sending.
			if pending[f.name] != f.seq {
				continue
			}
			delete(pending, f.name)
			delete(timers, f.name)
			select {
			case w.Events <- f.name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func IsContentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".tengo":
		return true
	}
	return false
}
