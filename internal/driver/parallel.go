package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// SourceExt is the extension of compilable source files.
const SourceExt = ".cs"

// FileOutcome is the result of one file of a batch. Err is the compile
// error of that file alone; Result is never nil.
type FileOutcome struct {
	Result *Result
	Err    error
}

// CompileFiles compiles every path concurrently, at most jobs at a time
// (jobs <= 0 means GOMAXPROCS). Outcomes keep the order of paths.
// A failing file does not stop the others; the returned error is only
// set when ctx is cancelled.
func CompileFiles(ctx context.Context, paths []string, opts Options, jobs int) ([]FileOutcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	outcomes := make([]FileOutcome, len(paths))
	if len(paths) == 0 {
		return outcomes, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				outcomes[i] = FileOutcome{Result: &Result{Path: path}, Err: gctx.Err()}
				return gctx.Err()
			default:
			}
			res, err := CompileFile(path, opts)
			outcomes[i] = FileOutcome{Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// ListSources returns the sorted *.cs files under dir.
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
