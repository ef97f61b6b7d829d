package uischema

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce coalesces bursts of writes (editors often write a file
// in several steps) into a single reload.
const DefaultReloadDebounce = 250 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Debounce time.Duration
	OnLoad   func(*Store)
	OnError  func(error)
}

// Watch loads dir once, hands the store to OnLoad, then reloads whenever a file
// in dir changes. A reload that fails to parse is reported through OnError and
// the previous store stays in effect. Watch blocks until ctx is done.
func Watch(ctx context.Context, dir string, opts WatchOptions) error {
	if opts.OnLoad == nil {
		return fmt.Errorf("uischema: watch %s: OnLoad is required", dir)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultReloadDebounce
	}
	report := opts.OnError
	if report == nil {
		report = func(error) {}
	}

	store, err := LoadFS(os.DirFS(dir))
	if err != nil {
		return err
	}
	opts.OnLoad(store)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("uischema: watch %s: %w", dir, err)
	}
	defer func() {
		_ = w.Close()
	}()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("uischema: watch %s: %w", dir, err)
	}

	reload := func() {
		store, err := LoadFS(os.DirFS(dir))
		if err != nil {
			report(err)
			return
		}
		opts.OnLoad(store)
	}
	pending := newDebouncer(opts.Debounce, reload)
	defer pending.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isSchemaFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				pending.trigger()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			report(fmt.Errorf("uischema: watch %s: %w", dir, err))
		}
	}
}

type debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	interval time.Duration
	fire     func()
}

func newDebouncer(interval time.Duration, fire func()) *debouncer {
	return &debouncer{interval: interval, fire: fire}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		d.timer = time.AfterFunc(d.interval, d.fire)
		return
	}
	d.timer.Reset(d.interval)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
