package driver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"udonc/internal/catalog"
	"udonc/internal/graph"
	"udonc/internal/lower"
	"udonc/internal/observ"
	"udonc/internal/source"
	"udonc/internal/typename"
)

// Options configure Compile, CompileFile and CompileFiles.
type Options struct {
	Frontend      Frontend
	Catalog       *catalog.Catalog
	Resolver      typename.Resolver
	WriteSyncSlot bool
	UIDs          graph.UIDGenerator // nil = graph.RandomUIDs
	Timings       bool
	Observer      PhaseObserver
}

// Result is the outcome of compiling one file. Graph is nil unless the
// compile succeeded; Unit is set whenever the file could be read.
type Result struct {
	Path   string
	Unit   *SourceUnit
	Graph  *graph.Graph
	Stats  lower.Stats
	Timing *observ.Report
}

var errNoCatalog = errors.New("no node catalog configured")

// Compile turns source text into a graph.
func Compile(name, text string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(text))
	return compileFile(fs, id, opts)
}

// CompileFile reads path and compiles it.
func CompileFile(path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return &Result{Path: path}, err
	}
	return compileFile(fs, id, opts)
}

func compileFile(fs *source.FileSet, id source.FileID, opts Options) (*Result, error) {
	file := fs.Get(id)
	timer := newTimer(opts.Timings)
	ph := &phases{file: file.Path, observer: opts.Observer, timer: timer}
	res := &Result{Path: file.Path}
	defer func() { res.Timing = report(timer) }()

	unit, err := opts.Frontend.run(fs, id, ph)
	res.Unit = unit
	if err != nil {
		return res, err
	}
	if opts.Catalog == nil {
		return res, errNoCatalog
	}
	if err := opts.Catalog.Err(); err != nil {
		return res, err
	}

	idx, started := ph.begin(PhaseLower)
	b := graph.NewBuilder(GraphName(file.Path), opts.UIDs)
	stats, err := lower.Lower(unit.Unit(), b, lower.Options{
		Catalog:       opts.Catalog,
		Resolver:      opts.Resolver,
		Tracer:        opts.Frontend.tracer(),
		WriteSyncSlot: opts.WriteSyncSlot,
	})
	ph.end(PhaseLower, idx, started, err)
	res.Stats = stats
	if err != nil {
		return res, fmt.Errorf("%s: %w", file.Path, err)
	}
	res.Graph = b.Graph()
	return res, nil
}

// GraphName is the program name derived from a source path: the base name
// without its extension.
func GraphName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// newTimer returns nil when timings are off; phases tolerates a nil timer.
func newTimer(enabled bool) *observ.Timer {
	if !enabled {
		return nil
	}
	return observ.NewTimer()
}

func report(t *observ.Timer) *observ.Report {
	if t == nil {
		return nil
	}
	r := t.Report()
	return &r
}
