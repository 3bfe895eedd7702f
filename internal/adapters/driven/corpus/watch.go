package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-corpus/internal/debounce"
	"github.com/custodia-labs/sercha-corpus/internal/logger"
)

// Watch reports changes to the corpus files on the returned channel.
// Bursts of filesystem events within quiet are coalesced into one
// notification. The channel is closed when ctx is done.
//
// Directories are watched rather than files so editors that replace a file
// by renaming over it are still observed.
func (s *FileSource) Watch(ctx context.Context, quiet time.Duration) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	dirs, err := s.watchDirs()
	if err != nil {
		w.Close()
		return nil, err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		logger.Debug("Watching %s", dir)
	}

	changes := make(chan struct{}, 1)
	d := debounce.New(quiet)
	notify := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}

	go func() {
		defer close(changes)
		defer d.Stop()
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if s.relevant(ev) {
					logger.Debug("Corpus change: %s", ev)
					d.Debounce(notify)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("Corpus watcher error: %v", err)
			}
		}
	}()

	return changes, nil
}

// watchDirs returns the directories holding the corpus files.
func (s *FileSource) watchDirs() ([]string, error) {
	if !s.IsGlob() {
		return []string{filepath.Dir(s.pattern)}, nil
	}

	base, _ := doublestar.SplitPattern(filepath.ToSlash(s.pattern))
	seen := map[string]bool{filepath.FromSlash(base): true}
	dirs := []string{filepath.FromSlash(base)}

	files, err := s.Files()
	if err != nil {
		return dirs, nil
	}
	for _, f := range files {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

// relevant reports whether ev touches a corpus file.
func (s *FileSource) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if !s.IsGlob() {
		return filepath.Clean(ev.Name) == filepath.Clean(s.pattern)
	}
	ok, err := doublestar.PathMatch(s.pattern, ev.Name)
	return err == nil && ok
}
