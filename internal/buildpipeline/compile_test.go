package buildpipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udonc/internal/asset"
	"udonc/internal/catalog"
	"udonc/internal/driver"
	"udonc/internal/refs"
	"udonc/internal/trace"
	"udonc/internal/typename"
)

type recordSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordSink) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// last returns the final event recorded for file.
func (r *recordSink) last(file string) Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out Event
	for _, ev := range r.events {
		if ev.File == file {
			out = ev
		}
	}
	return out
}

func driverOptions() driver.Options {
	return driver.Options{
		Frontend: driver.Frontend{References: refs.Builtin()},
		Catalog:  catalog.New(catalog.Builtin(typename.DefaultPrimitiveNamespace), catalog.CollisionOverwrite),
		Resolver: typename.New(),
	}
}

func writeSources(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.cs", "b.cs", "c.cs"} {
		text, ok := files[name]
		if !ok {
			continue
		}
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
		paths = append(paths, path)
	}
	return dir, paths
}

func TestCompileWritesAssets(t *testing.T) {
	_, paths := writeSources(t, map[string]string{
		"a.cs": "public int A = 1;",
		"b.cs": "public bool B;",
	})
	sink := &recordSink{}
	res, err := Compile(context.Background(), &CompileRequest{
		Files:    paths,
		Options:  driverOptions(),
		Output:   asset.FileSink{Format: asset.FormatYAML},
		Jobs:     2,
		Progress: sink,
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.Zero(t, res.Failed)

	for i, fr := range res.Files {
		assert.Equal(t, paths[i], fr.Path)
		require.NoError(t, fr.Err)
		assert.Equal(t, paths[i]+".asset", fr.Asset)
		_, statErr := os.Stat(fr.Asset)
		require.NoError(t, statErr)

		ev := sink.last(DisplayPath(paths[i]))
		assert.Equal(t, StatusDone, ev.Status)
	}
	assert.True(t, res.Timings.Has(StageParse))
	assert.True(t, res.Timings.Has(StageWrite))
}

func TestCompileIsolatesFailures(t *testing.T) {
	_, paths := writeSources(t, map[string]string{
		"a.cs": "public int A = 1;",
		"b.cs": "public Missing B;",
		"c.cs": "public int = ;",
	})
	sink := &recordSink{}
	out := &asset.MemorySink{}
	res, err := Compile(context.Background(), &CompileRequest{
		Files:    paths,
		Options:  driverOptions(),
		Output:   out,
		Progress: sink,
	})
	require.ErrorIs(t, err, ErrFilesFailed)
	assert.Equal(t, 2, res.Failed)

	require.NoError(t, res.Files[0].Err)
	assert.Len(t, out.Docs, 1, "the good file is still written")
	assert.Contains(t, out.Docs, paths[0]+".asset")

	var berr *driver.BindError
	require.True(t, errors.As(res.Files[1].Err, &berr))
	assert.Empty(t, res.Files[1].Asset)
	bad := sink.last(DisplayPath(paths[1]))
	assert.Equal(t, StatusError, bad.Status)
	assert.Equal(t, StageBind, bad.Stage)

	var perr *driver.ParseError
	require.True(t, errors.As(res.Files[2].Err, &perr))
	assert.Equal(t, StageParse, sink.last(DisplayPath(paths[2])).Stage)

	overall := sink.last("")
	assert.Equal(t, StatusError, overall.Status)
}

func TestCompileWithoutOutput(t *testing.T) {
	_, paths := writeSources(t, map[string]string{"a.cs": "public int A;"})
	res, err := Compile(context.Background(), &CompileRequest{Files: paths, Options: driverOptions()})
	require.NoError(t, err)
	assert.Empty(t, res.Files[0].Asset)
	require.NotNil(t, res.Files[0].Result.Graph)
	_, statErr := os.Stat(paths[0] + ".asset")
	assert.True(t, os.IsNotExist(statErr))
}

func TestCompileForwardsObserver(t *testing.T) {
	_, paths := writeSources(t, map[string]string{"a.cs": "public int A;"})
	var (
		mu    sync.Mutex
		names []string
	)
	opts := driverOptions()
	opts.Observer = func(ev driver.PhaseEvent) {
		mu.Lock()
		defer mu.Unlock()
		if ev.Status == driver.PhaseEnd {
			names = append(names, ev.Name)
		}
	}
	_, err := Compile(context.Background(), &CompileRequest{Files: paths, Options: opts})
	require.NoError(t, err)
	assert.Equal(t, []string{driver.PhaseParse, driver.PhaseBind, driver.PhaseLower}, names)
}

func TestCompileRequestErrors(t *testing.T) {
	_, err := Compile(context.Background(), nil)
	require.Error(t, err)
	_, err = Compile(context.Background(), &CompileRequest{})
	require.Error(t, err)
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "a.cs", Status: StatusDone})
	ev := <-ch
	assert.Equal(t, "a.cs", ev.File)

	// nil channel is ignored
	ChannelSink{}.OnEvent(Event{})

	// a closed Done drops events instead of blocking on a full channel
	done := make(chan struct{})
	close(done)
	full := make(chan Event)
	ChannelSink{Ch: full, Done: done}.OnEvent(Event{File: "a.cs"})
}

func TestMultiSinkSkipsNil(t *testing.T) {
	a, b := &recordSink{}, &recordSink{}
	MultiSink{a, nil, b}.OnEvent(Event{File: "x.cs", Status: StatusDone})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestCompileTracesBatch(t *testing.T) {
	_, paths := writeSources(t, map[string]string{
		"a.cs": "public int A = 1;",
		"b.cs": "public Missing B;",
	})
	ring := trace.NewRingTracer(1024, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	res, err := Compile(ctx, &CompileRequest{Files: paths, Options: driverOptions()})
	require.ErrorIs(t, err, ErrFilesFailed)
	assert.Equal(t, 1, res.Failed)

	var progress, batchEnd []trace.Event
	for _, ev := range ring.Filter(trace.ScopeDriver) {
		switch {
		case ev.Name == "progress":
			progress = append(progress, ev)
		case ev.Name == "batch" && ev.Kind == trace.KindSpanEnd:
			batchEnd = append(batchEnd, ev)
		}
	}
	require.Len(t, batchEnd, 1)
	assert.Equal(t, "1 failed", batchEnd[0].Detail)
	assert.NotEmpty(t, progress)
	var sawError bool
	for _, ev := range progress {
		if strings.Contains(ev.Detail, "b.cs bind error") {
			sawError = true
		}
	}
	assert.True(t, sawError)
}

func TestTimingsAdd(t *testing.T) {
	var tm Timings
	tm.Add(StageParse, 2)
	tm.Add(StageParse, 3)
	tm.Set(StageBind, 4)
	assert.EqualValues(t, 5, tm.Duration(StageParse))
	assert.EqualValues(t, 9, tm.Sum(Stages...))
	assert.False(t, tm.Has(StageWrite))
}
