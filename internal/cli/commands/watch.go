package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// runWatch checks the input once, then again after every burst of changes
// to .sql files, until ctx is cancelled. Failed runs are reported and the
// watch continues.
func runWatch(ctx context.Context, cmdCtx *CommandContext, target Target, opts *CheckOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := addWatchPaths(watcher, target, opts.Input); err != nil {
		return err
	}

	r := cmdCtx.Renderer
	debounce := cmdCtx.Cfg.Watch.Debounce
	recheck := func() {
		summary, infos, err := checkTarget(ctx, cmdCtx.Checker, target, opts.Input)
		if err != nil {
			r.Error(err.Error())
			return
		}
		if err := writeReport(cmdCtx, summary, infos); err != nil {
			r.Error(err.Error())
		}
	}

	recheck()
	r.Muted(fmt.Sprintf("watching %s (ctrl-c to stop)", opts.Input))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, target, opts.Input) {
				continue
			}
			if target == TargetDir && event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addDirRecursive(watcher, event.Name)
				}
			}
			cmdCtx.Logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			pending = time.After(debounce)

		case <-pending:
			pending = nil
			recheck()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Error("watcher error", "error", err)
		}
	}
}

// relevant reports whether event should trigger a re-check. A file target
// is watched through its directory, so only events naming it count.
func relevant(event fsnotify.Event, target Target, input string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if target == TargetFile {
		return filepath.Clean(event.Name) == filepath.Clean(input)
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".sql") || event.Op&fsnotify.Create != 0
}

// addWatchPaths watches a directory tree, or the directory holding a single
// file. Editors that save by renaming a temporary file over the original
// replace the inode, which a watch on the file itself would not survive.
func addWatchPaths(watcher *fsnotify.Watcher, target Target, input string) error {
	if target == TargetFile {
		if _, err := os.Stat(input); err != nil {
			return err
		}
		return watcher.Add(filepath.Dir(input))
	}
	return addDirRecursive(watcher, input)
}

// addDirRecursive adds a directory and all subdirectories to the watcher.
func addDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
