package game

import (
	"context"
	"log"
	"os"
	"time"
)

// FileWatcher polls file modification times and triggers a callback on change.
type FileWatcher struct {
	Paths     []string
	Interval  time.Duration
	onChange  func(string) // called with path that changed
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for given paths and interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		lastMTime: make(map[string]time.Time),
	}
}

// Run polls until ctx is done.
func (w *FileWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	// prime cache
	w.scanAll(true)
	for {
		select {
		case <-ticker.C:
			w.scanAll(false)
		case <-ctx.Done():
			return
		}
	}
}

// scanAll checks mtimes and invokes onChange for files that changed since
// last scan. A file that appears after priming counts as a change.
func (w *FileWatcher) scanAll(prime bool) {
	for _, p := range w.Paths {
		fi, err := os.Stat(p)
		if err != nil {
			// if file missing, keep going
			continue
		}
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime || (ok && mt.Equal(last)) {
			continue
		}
		if w.onChange != nil {
			w.onChange(p)
		}
	}
}

// WatchProfile invalidates the loader cache whenever a file behind profile
// changes, then calls onReload. It blocks until ctx is done.
func (l *Loader) WatchProfile(ctx context.Context, profile string, interval time.Duration, onReload func()) {
	w := NewFileWatcher(l.paths.Files(profile), interval, func(path string) {
		log.Printf("config changed: %s", path)
		l.Invalidate()
		if onReload != nil {
			onReload()
		}
	})
	w.Run(ctx)
}
