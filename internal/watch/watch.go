// Package watch implements the watch runner: it watches the search root
// with fsnotify and re-invokes the orchestrator's run function after a
// debounce quiet period following any filesystem change.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc performs one full search pass (the orchestrator's steps 5-9)
// and is called once up front and again after every debounced change.
// n is 0 for the initial run, then 1, 2, ... for each rerun.
type RunFunc func(n int) error

// Runner watches root (recursively, for a directory) and calls run after
// every debounce quiet period following a Create/Write/Remove/Rename
// event. It runs until a value is received on interrupt or it is closed.
type Runner struct {
	watcher  *fsnotify.Watcher
	root     string
	debounce time.Duration
	run      RunFunc
}

// New creates a Runner watching root. For a directory root, every
// non-hidden subdirectory is added too; new subdirectories that appear
// later are added as they're observed.
func New(root string, debounce time.Duration, run RunFunc) (*Runner, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	r := &Runner{watcher: watcher, root: root, debounce: debounce, run: run}

	if err := r.addRecursive(root); err != nil {
		watcher.Close()
		return nil, err
	}
	return r, nil
}

func (r *Runner) addRecursive(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return r.watcher.Add(root)
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && isHidden(filepath.Base(path)) {
			return filepath.SkipDir
		}
		if err := r.watcher.Add(path); err != nil && !os.IsPermission(err) {
			return err
		}
		return nil
	})
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Run performs the initial pass, then blocks watching for changes until
// a value is received on interrupt or it is closed. Each debounced batch
// of changes triggers one rerun.
func (r *Runner) Run(interrupt <-chan os.Signal) error {
	defer r.watcher.Close()

	if err := r.run(0); err != nil {
		return err
	}

	n := 0
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-interrupt:
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			r.handleEvent(event)
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(r.debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			n++
			if err := r.run(n); err != nil {
				return err
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

func (r *Runner) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	info, err := os.Stat(event.Name)
	if err == nil && info.IsDir() && !isHidden(filepath.Base(event.Name)) {
		r.addRecursive(event.Name)
	}
}
