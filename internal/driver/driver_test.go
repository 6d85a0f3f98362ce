package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udonc/internal/catalog"
	"udonc/internal/diag"
	"udonc/internal/graph"
	"udonc/internal/observ"
	"udonc/internal/refs"
	"udonc/internal/token"
	"udonc/internal/trace"
	"udonc/internal/typename"
)

const exampleSource = `using System.Collections;
using System.Collections.Generic;
using UnityEngine;

[SerializeField, SerializePrivateVariables]
public int Count, b = 0;
Transform Child;

void Start()
{
    Child = transform.Find("Child");
}

void Update()
{
    Count++;
    if (Count % 2 == 0)
        Child.Rotate(new Vector3(1, 0, 0), 10);
}
`

func builtinOptions() Options {
	resolver := typename.New()
	return Options{
		Frontend: Frontend{References: refs.Builtin()},
		Catalog:  catalog.New(catalog.Builtin(resolver.PrimitiveNamespace), catalog.CollisionOverwrite),
		Resolver: resolver,
		UIDs:     &graph.SequentialUIDs{Namespace: uuid.NameSpaceURL},
	}
}

func codesOf(ds []diag.Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestFrontendCompileExample(t *testing.T) {
	fe := Frontend{References: refs.Builtin()}
	unit, err := fe.Compile("Example.cs", exampleSource)
	require.NoError(t, err)
	require.NotNil(t, unit.Model)
	assert.Equal(t, "Example.cs", unit.File.Path)
	assert.False(t, unit.Diagnostics.HasErrors())
	assert.False(t, unit.Diagnostics.HasWarnings())

	u := unit.Unit()
	assert.Same(t, unit.Builder, u.AST)
	assert.Equal(t, unit.ASTFile, u.File)
	assert.Equal(t, []string{"SEM3013", "SEM3013"}, codesOf(unit.Diagnostics.Items()))
}

func TestFrontendParseError(t *testing.T) {
	unit, err := Frontend{References: refs.Builtin()}.Compile("bad.cs", "public int Count = ;")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr), "got %T", err)
	assert.Equal(t, "bad.cs", perr.Path)
	assert.NotEmpty(t, perr.Diagnostics)
	assert.Contains(t, err.Error(), "syntax error(s)")

	require.NotNil(t, unit)
	assert.Nil(t, unit.Model, "binding must not run after a syntax error")
}

func TestFrontendBindError(t *testing.T) {
	_, err := Frontend{References: refs.Builtin()}.Compile("bad.cs", "public Missing value;")

	var berr *BindError
	require.True(t, errors.As(err, &berr), "got %T: %v", err, err)
	assert.Contains(t, codesOf(berr.Diagnostics), diag.SemaTypeNotFound.ID())
	assert.Contains(t, err.Error(), "first: "+diag.SemaTypeNotFound.ID())
}

func TestFrontendDiagnosticsAreUnique(t *testing.T) {
	_, err := Frontend{References: refs.Builtin()}.Compile("bad.cs", "public Missing a; public Missing b; public Missing c, d;")

	var berr *BindError
	require.True(t, errors.As(err, &berr), "got %T: %v", err, err)
	type key struct {
		code       string
		start, end uint32
		message    string
	}
	seen := make(map[key]bool)
	notFound := 0
	for _, d := range berr.Diagnostics {
		k := key{d.Code.ID(), d.Primary.Start, d.Primary.End, d.Message}
		assert.False(t, seen[k], "repeated diagnostic %v", k)
		seen[k] = true
		if d.Code == diag.SemaTypeNotFound {
			notFound++
		}
	}
	// одна ошибка на каждое упоминание типа, повторы на том же месте отброшены
	assert.Equal(t, 3, notFound)
}

func TestFrontendReferencePolicy(t *testing.T) {
	custom := refs.Assembly{
		Name:  "Custom",
		Types: []refs.TypeDef{{Namespace: "Acme", Name: "Widget", Kind: refs.KindClass}},
	}
	src := "public Acme.Widget w;"

	// in-memory assemblies without a location are never offered
	_, err := Frontend{References: []refs.Assembly{custom}}.Compile("a.cs", src)
	var berr *BindError
	require.True(t, errors.As(err, &berr), "got %T: %v", err, err)

	custom.Location = "/refs/Custom.dll"
	_, err = Frontend{References: []refs.Assembly{custom}}.Compile("a.cs", src)
	require.NoError(t, err)

	custom.Dynamic = true
	_, err = Frontend{References: []refs.Assembly{custom}}.Compile("a.cs", src)
	require.True(t, errors.As(err, &berr))
}

func TestFrontendEchoesDiagnostics(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelError)
	fe := Frontend{References: refs.Builtin(), Tracer: ring}
	_, err := fe.Compile("Example.cs", exampleSource)
	require.NoError(t, err)

	events := ring.Filter(trace.ScopeDiag)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, trace.SeverityInfo, ev.Severity)
		assert.Equal(t, "SEM3013", ev.Code)
		assert.True(t, strings.HasPrefix(ev.Detail, "["), ev.Detail)
	}
	assert.Contains(t, events[0].Detail, "System.Collections")
}

func TestFrontendEchoesErrors(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelError)
	_, err := Frontend{References: refs.Builtin(), Tracer: ring}.Compile("bad.cs", "public Missing value;")
	require.Error(t, err)

	var errs int
	for _, ev := range ring.Filter(trace.ScopeDiag) {
		if ev.Severity == trace.SeverityError {
			errs++
			assert.Contains(t, ev.Detail, "Missing")
		}
	}
	assert.Equal(t, 1, errs)
}

func TestCompileExample(t *testing.T) {
	res, err := Compile("Assets/Example.cs", exampleSource, builtinOptions())
	require.NoError(t, err)
	require.NotNil(t, res.Graph)

	assert.Equal(t, "Example", res.Graph.Name)
	names := make([]string, 0, len(res.Graph.Nodes))
	for _, n := range res.Graph.Nodes {
		names = append(names, n.FullName)
	}
	want := []string{"Variable_SystemInt32", "Variable_SystemInt32", "Variable_UnityEngineTransform"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, res.Stats.Emitted)
	assert.Nil(t, res.Timing)
}

func TestCompileDeterministicUIDs(t *testing.T) {
	first, err := Compile("Example.cs", exampleSource, builtinOptions())
	require.NoError(t, err)
	second, err := Compile("Example.cs", exampleSource, builtinOptions())
	require.NoError(t, err)

	for i := range first.Graph.Nodes {
		assert.Equal(t, first.Graph.Nodes[i].UID, second.Graph.Nodes[i].UID)
	}
	assert.NotEqual(t, first.Graph.Nodes[0].UID, first.Graph.Nodes[1].UID)
}

func TestCompileResolutionFailure(t *testing.T) {
	res, err := Compile("arr.cs", "public int[] values;", builtinOptions())
	require.Error(t, err)

	var rerr *typename.ResolutionError
	require.True(t, errors.As(err, &rerr), "got %T: %v", err, err)
	assert.Nil(t, res.Graph, "no partial graph on failure")
}

func TestCompileWithoutCatalog(t *testing.T) {
	opts := builtinOptions()
	opts.Catalog = nil
	_, err := Compile("a.cs", "public int x;", opts)
	require.ErrorIs(t, err, errNoCatalog)
}

func TestCompileCatalogFailure(t *testing.T) {
	opts := builtinOptions()
	dup := catalog.Entry{FullName: "Variable_SystemInt32"}
	opts.Catalog = catalog.New(catalog.Static{dup, dup}, catalog.CollisionReject)
	_, err := Compile("a.cs", "public int x;", opts)
	require.ErrorIs(t, err, catalog.ErrDuplicateEntry)
}

func TestCompileTimingsAndObserver(t *testing.T) {
	var (
		mu     sync.Mutex
		events []PhaseEvent
	)
	opts := builtinOptions()
	opts.Timings = true
	opts.Observer = func(ev PhaseEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	}
	res, err := Compile("Example.cs", exampleSource, opts)
	require.NoError(t, err)

	require.NotNil(t, res.Timing)
	var phases []string
	for _, p := range res.Timing.Phases {
		phases = append(phases, p.Name)
	}
	assert.Equal(t, []string{PhaseParse, PhaseBind, PhaseLower}, phases)

	require.Len(t, events, 6)
	assert.Equal(t, PhaseEvent{File: "Example.cs", Name: PhaseParse, Status: PhaseStart}, events[0])
	last := events[5]
	assert.Equal(t, PhaseLower, last.Name)
	assert.Equal(t, PhaseEnd, last.Status)
	assert.NoError(t, last.Err)
}

func TestCompileObserverSeesFailure(t *testing.T) {
	var ends []PhaseEvent
	opts := builtinOptions()
	opts.Timings = true
	opts.Observer = func(ev PhaseEvent) {
		if ev.Status == PhaseEnd {
			ends = append(ends, ev)
		}
	}
	res, err := Compile("bad.cs", "public Missing value;", opts)
	require.Error(t, err)

	require.Len(t, ends, 2)
	assert.NoError(t, ends[0].Err)
	assert.Equal(t, PhaseBind, ends[1].Name)
	assert.Error(t, ends[1].Err)
	require.NotNil(t, res.Timing)
	require.Len(t, res.Timing.Phases, 2)
	assert.Equal(t, observ.PhaseReport{Name: PhaseParse, DurationMS: res.Timing.Phases[0].DurationMS}, res.Timing.Phases[0])
	assert.Equal(t, "failed", res.Timing.Phases[1].Note)
}

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	}
	return dir
}

func TestCompileFilesIsolatesFailures(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"a.cs":     "public int A = 1;",
		"b.cs":     "public Missing B;",
		"sub/c.cs": "public string C = \"c\";",
	})
	paths, err := ListSources(dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	paths = append(paths, filepath.Join(dir, "missing.cs"))

	outcomes, err := CompileFiles(context.Background(), paths, builtinOptions(), 2)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	require.NoError(t, outcomes[0].Err)
	assert.Equal(t, "Variable_SystemInt32", outcomes[0].Result.Graph.Nodes[0].FullName)

	var berr *BindError
	require.True(t, errors.As(outcomes[1].Err, &berr))
	assert.Nil(t, outcomes[1].Result.Graph)

	require.NoError(t, outcomes[2].Err)
	assert.Equal(t, "Variable_SystemString", outcomes[2].Result.Graph.Nodes[0].FullName)

	require.ErrorIs(t, outcomes[3].Err, os.ErrNotExist)
	assert.Equal(t, paths[3], outcomes[3].Result.Path)
}

func TestCompileFilesCancelled(t *testing.T) {
	dir := writeSources(t, map[string]string{"a.cs": "public int A;"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := CompileFiles(ctx, []string{filepath.Join(dir, "a.cs")}, builtinOptions(), 1)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, outcomes[0].Err, context.Canceled)
}

func TestCompileFilesEmpty(t *testing.T) {
	outcomes, err := CompileFiles(context.Background(), nil, builtinOptions(), 0)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestTokenizeAndParse(t *testing.T) {
	dir := writeSources(t, map[string]string{"a.cs": "public int A = 1;\r\n"})
	path := filepath.Join(dir, "a.cs")

	tok, err := Tokenize(path, 10)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Tokens)
	assert.Equal(t, token.EOF, tok.Tokens[len(tok.Tokens)-1].Kind)
	assert.Equal(t, 0, tok.Bag.Len())
	assert.Equal(t, "public int A = 1;\n", string(tok.File.Content))

	parsed, err := Parse(path, 10)
	require.NoError(t, err)
	assert.False(t, parsed.Bag.HasErrors())
	assert.True(t, parsed.ASTFile.IsValid())

	_, err = Tokenize(filepath.Join(dir, "nope.cs"), 10)
	require.Error(t, err)
}

func TestGraphName(t *testing.T) {
	assert.Equal(t, "Example", GraphName("Assets/Scripts/Example.cs"))
	assert.Equal(t, "noext", GraphName("noext"))
}
