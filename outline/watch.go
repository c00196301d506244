package outline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arjunmahishi/symtree/parser"
	"github.com/arjunmahishi/symtree/symtree"
)

// DefaultDebounce is the quiet period used when none is given.
const DefaultDebounce = 100 * time.Millisecond

// Watch builds the tree of opts.File and calls fn with it, then reconciles
// the same tree each time the file is written or replaced. Bursts of events
// closer together than opts.Debounce produce a single refresh. Node identity
// and expansion state carry over between calls. Watch returns when ctx is
// done or fn returns an error.
func Watch(ctx context.Context, opts WatchOptions, fn func(*Document) error) error {
	if opts.File == "" {
		return errors.New("file is required")
	}
	if opts.Debounce == 0 {
		opts.Debounce = DefaultDebounce
	}
	mode, err := symtree.ParseSortMode(opts.Sort)
	if err != nil {
		return err
	}

	job, query, err := single(opts.File, opts.Language)
	if err != nil {
		return err
	}
	tree, err := newTree(job.Language, mode)
	if err != nil {
		return err
	}
	doc := &Document{File: job.DisplayPath, Language: job.Language, Tree: tree}
	p := parser.New(job.Language)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often save by renaming a temp file over the original, which
	// drops a watch on the file itself. Watch the directory instead.
	if err := watcher.Add(filepath.Dir(job.AbsPath)); err != nil {
		return fmt.Errorf("watch %s: %w", job.DisplayPath, err)
	}

	if err := doc.refresh(ctx, p, query, job); err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}

	debounce := time.NewTimer(opts.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != job.AbsPath {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				debounce.Reset(opts.Debounce)
			}

		case <-debounce.C:
			if err := doc.refresh(ctx, p, query, job); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				// The file may be mid-rewrite; the next event retries.
				continue
			}
			if err := fn(doc); err != nil {
				return err
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}
