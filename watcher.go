package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

var errWatcherClosed = errors.New("watcher closed")

// Watcher reports changes below a working tree, ignoring the patch output directory and .git
type Watcher struct {
	watcher  *fsnotify.Watcher
	rootPath string
	ignored  []string
	debounce time.Duration
}

// NewWatcher watches rootPath recursively. ignoredDirs are relative to rootPath.
func NewWatcher(rootPath string, ignoredDirs ...string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsWatcher,
		rootPath: filepath.Clean(rootPath),
		debounce: defaultDebounce,
	}
	for _, dir := range append([]string{".git"}, ignoredDirs...) {
		w.ignored = append(w.ignored, filepath.Join(w.rootPath, filepath.FromSlash(dir)))
	}

	if err := w.addRecursiveDirs(w.rootPath); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// Wait blocks until a relevant change happens and the burst of events following it has settled.
func (w *Watcher) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return errWatcherClosed
			}
			if w.relevant(event) {
				w.track(event)
				return w.settle(ctx)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errWatcherClosed
			}
			return fmt.Errorf("watch %s: %w", w.rootPath, err)
		}
	}
}

// settle returns once no relevant event arrived for the debounce interval.
func (w *Watcher) settle(ctx context.Context) error {
	timer := time.NewTimer(w.debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return errWatcherClosed
			}
			if w.relevant(event) {
				w.track(event)
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errWatcherClosed
			}
			return fmt.Errorf("watch %s: %w", w.rootPath, err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return !w.isIgnored(event.Name)
}

// track starts watching directories created after the watcher.
func (w *Watcher) track(event fsnotify.Event) {
	if event.Op&fsnotify.Create == 0 {
		return
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		_ = w.addRecursiveDirs(event.Name)
	}
}

// Close closes the file system watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) addRecursiveDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.isIgnored(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return nil
		}
		return nil
	})
}

func (w *Watcher) isIgnored(path string) bool {
	for _, dir := range w.ignored {
		if path == dir || strings.HasPrefix(path, dir+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}
