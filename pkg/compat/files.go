package compat

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// CheckFile checks the statements of one file. Errors carry the path.
func (c *Checker) CheckFile(path string) (Summary, []OnceInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, nil, fmt.Errorf("at file: %s: %w", path, err)
	}

	summary, infos, err := c.CheckStatements(string(data))
	if err != nil {
		return Summary{}, nil, fmt.Errorf("at file: %s: %w", path, err)
	}
	summary.FileCount = 1
	for i := range infos {
		infos[i].File = path
	}

	c.logger.Debug("checked file",
		"path", path,
		"statements", summary.SQLCount,
		"findings", summary.Findings(),
	)
	return summary, infos, nil
}

type fileResult struct {
	summary Summary
	infos   []OnceInfo
}

// CheckFiles checks each file independently and folds the results in input
// order. An empty set fails with ErrEmptyInput before any file is read. A
// failure aborts the batch and no partial result is returned; the error is
// that of the first failing file in input order, whatever the scheduling.
func (c *Checker) CheckFiles(ctx context.Context, paths []string) (Summary, []OnceInfo, error) {
	if len(paths) == 0 {
		return Summary{}, nil, ErrEmptyInput
	}

	results := make([]fileResult, len(paths))
	errs := make([]error, len(paths))
	// failed is the lowest failing index so far. Files after it are skipped,
	// files before it still run so an earlier failure can take its place.
	var (
		mu     sync.Mutex
		failed = len(paths)
	)
	var g errgroup.Group
	g.SetLimit(c.jobs)

	for i, path := range paths {
		g.Go(func() error {
			mu.Lock()
			skip := i > failed
			mu.Unlock()
			if skip {
				return nil
			}
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			summary, infos, err := c.CheckFile(path)
			if err != nil {
				errs[i] = err
				mu.Lock()
				failed = min(failed, i)
				mu.Unlock()
				return nil
			}
			results[i] = fileResult{summary: summary, infos: infos}
			return nil
		})
	}
	_ = g.Wait()
	for _, err := range errs {
		if err != nil {
			return Summary{}, nil, err
		}
	}

	var total Summary
	var all []OnceInfo
	for _, r := range results {
		total = total.Add(r.summary)
		all = append(all, r.infos...)
	}
	return total, all, nil
}

// CollectSQLFiles returns every file under root with the .sql extension, in
// lexical walk order. A root that is itself a file is returned as is.
func CollectSQLFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".sql") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect sql files in %s: %w", root, err)
	}
	return files, nil
}
