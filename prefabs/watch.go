package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadKind says what an edited file feeds.
type ReloadKind uint8

const (
	ReloadMovement ReloadKind = iota + 1
	ReloadScript
	ReloadLevel
)

func (k ReloadKind) String() string {
	switch k {
	case ReloadMovement:
		return "movement"
	case ReloadScript:
		return "script"
	case ReloadLevel:
		return "level"
	}
	return "unknown"
}

// KindOf maps a path to the reload it triggers. Files the movement core
// does not read report false.
func KindOf(path string) (ReloadKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReloadMovement, true
	case ".tengo":
		return ReloadScript, true
	case ".json":
		return ReloadLevel, true
	}
	return 0, false
}

// Change is one debounced edit.
type Change struct {
	Path string
	Kind ReloadKind
}

// debounce drops repeated events for one file within the window, since
// editors often write a file several times per save.
const debounce = 100 * time.Millisecond

type debouncer struct {
	window time.Duration
	last   map[string]time.Time
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window, last: make(map[string]time.Time)}
}

// accept turns a filesystem event into a Change, or reports false for ops
// that do not alter content, unwatched files and repeats.
func (d *debouncer) accept(event fsnotify.Event, now time.Time) (Change, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return Change{}, false
	}
	kind, ok := KindOf(event.Name)
	if !ok {
		return Change{}, false
	}
	if t, seen := d.last[event.Name]; seen && now.Sub(t) < d.window {
		return Change{}, false
	}
	d.last[event.Name] = now
	return Change{Path: event.Name, Kind: kind}, true
}

// Watcher reports edits to movement specs, scenario scripts and levels in
// the watched directories.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
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
		Events:  make(chan Change, 16),
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

func (w *Watcher) run() {
	defer close(w.done)
	d := newDebouncer(debounce)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			change, ok := d.accept(event, time.Now())
			if !ok {
				continue
			}
			select {
			case w.Events <- change:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			}
		case <-w.closeCh:
			return
		}
	}
}
