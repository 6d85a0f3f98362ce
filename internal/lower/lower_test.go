package lower

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udonc/internal/ast"
	"udonc/internal/catalog"
	"udonc/internal/diag"
	"udonc/internal/graph"
	"udonc/internal/lexer"
	"udonc/internal/parser"
	"udonc/internal/refs"
	"udonc/internal/sema"
	"udonc/internal/source"
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

func bindUnit(t *testing.T, src string) Unit {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cs", []byte(src))
	bag := diag.NewBag(100)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs, lx, b, parser.Options{Reporter: rep})
	bound := sema.Bind(b, res.File, sema.Options{Reporter: rep, References: refs.Builtin()})
	require.False(t, bag.HasErrors(), diag.FormatShort(bag.Items(), fs, true))
	return Unit{Files: fs, AST: b, File: res.File, Model: bound.Model}
}

func lowerSource(t *testing.T, src string, opts Options) (*graph.Graph, Stats, error) {
	t.Helper()
	if opts.Catalog == nil {
		opts.Catalog = catalog.New(catalog.Builtin(opts.Resolver.PrimitiveNamespace), catalog.CollisionOverwrite)
	}
	gb := graph.NewBuilder("test", nil)
	stats, err := Lower(bindUnit(t, src), gb, opts)
	return gb.Graph(), stats, err
}

func slotValues(n graph.Node) []any {
	out := make([]any, len(n.Slots))
	for i, s := range n.Slots {
		out[i] = s.Value
	}
	return out
}

func TestLowerScriptField(t *testing.T) {
	g, stats, err := lowerSource(t, "public int Count = 0;", Options{})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)

	n := g.Nodes[0]
	assert.Equal(t, "Variable_Int32", n.FullName)
	want := []any{graph.Syntax{Kind: "NumericLiteralExpression", Text: "0"}, "Count", true, nil, nil}
	if diff := cmp.Diff(want, slotValues(n)); diff != "" {
		t.Fatalf("slots mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Stats{Fields: 1, Emitted: 1, Nodes: stats.Nodes, Tokens: stats.Tokens}, stats)
}

func TestLowerRuntimeNamespace(t *testing.T) {
	g, _, err := lowerSource(t, "public int Count = 0;", Options{Resolver: typename.New()})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "Variable_SystemInt32", g.Nodes[0].FullName)
}

func TestLowerExample(t *testing.T) {
	g, stats, err := lowerSource(t, exampleSource, Options{Resolver: typename.New()})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 3)

	got := make([][]any, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		got = append(got, append([]any{n.FullName}, slotValues(n)...))
	}
	zero := graph.Syntax{Kind: "NumericLiteralExpression", Text: "0"}
	want := [][]any{
		{"Variable_SystemInt32", nil, "Count", true, nil, nil},
		{"Variable_SystemInt32", zero, "b", true, nil, nil},
		{"Variable_UnityEngineTransform", nil, "Child", false, nil, nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("graph mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, stats.Fields)
	assert.Equal(t, 3, stats.Emitted)
	assert.Equal(t, 2, stats.Methods)
	assert.Equal(t, 3, stats.Statements)
}

func TestLowerWriteSyncSlot(t *testing.T) {
	src := "using UnityEngine; [SerializeField] public int A; public int B;"
	for _, write := range []bool{false, true} {
		g, _, err := lowerSource(t, src, Options{WriteSyncSlot: write})
		require.NoError(t, err)
		require.Len(t, g.Nodes, 2)
		a, b := g.Nodes[0].Slots[SlotSync].Value, g.Nodes[1].Slots[SlotSync].Value
		if write {
			assert.Equal(t, true, a)
			assert.Equal(t, false, b)
		} else {
			assert.Nil(t, a)
			assert.Nil(t, b)
		}
	}
}

func TestLowerCatalogMiss(t *testing.T) {
	opts := Options{Catalog: catalog.New(catalog.Static{}, catalog.CollisionOverwrite)}
	g, stats, err := lowerSource(t, "public int a = 1, b;", opts)
	require.NoError(t, err)
	assert.Empty(t, g.Nodes)
	assert.Equal(t, 2, stats.Fields)
	assert.Equal(t, 2, stats.Skipped)
}

func TestLowerResolutionFailure(t *testing.T) {
	g, _, err := lowerSource(t, "public int a; public int[] many;", Options{})
	var rerr *typename.ResolutionError
	require.True(t, errors.As(err, &rerr), "err = %v", err)
	assert.Equal(t, "int[]", rerr.Name)
	// nodes created before the failure stay in the builder; callers drop it
	assert.Len(t, g.Nodes, 1)
}

func TestLowerSkipsConstructedGeneric(t *testing.T) {
	src := "using System.Collections.Generic; public List<int> xs; public int n;"
	g, stats, err := lowerSource(t, src, Options{Resolver: typename.New()})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "Variable_SystemInt32", g.Nodes[0].FullName)
	assert.Equal(t, 2, stats.Fields)
	assert.Equal(t, 1, stats.Skipped)
}

func TestLowerTypeMembers(t *testing.T) {
	src := `
namespace Game {
    public class Door : UnityEngine.MonoBehaviour {
        public float Speed = 1.5f;
        private string label = "door";
        public int Width { get; set; }
        void Open() { Speed = 2f; }
    }
}`
	g, stats, err := lowerSource(t, src, Options{Resolver: typename.New()})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "Variable_SystemSingle", g.Nodes[0].FullName)
	assert.Equal(t, graph.Syntax{Kind: "NumericLiteralExpression", Text: "1.5f"}, g.Nodes[0].Slots[SlotValue].Value)
	assert.Equal(t, "Variable_SystemString", g.Nodes[1].FullName)
	assert.Equal(t, graph.Syntax{Kind: "StringLiteralExpression", Text: `"door"`}, g.Nodes[1].Slots[SlotValue].Value)
	assert.Equal(t, false, g.Nodes[1].Slots[SlotPublic].Value)
	assert.Equal(t, 1, stats.Methods)
}

func TestLowerTrace(t *testing.T) {
	ring := trace.NewRingTracer(1024, trace.LevelDetail)
	_, _, err := lowerSource(t, exampleSource, Options{Resolver: typename.New(), Tracer: ring})
	require.NoError(t, err)

	var lines []string
	for _, ev := range ring.Filter(trace.ScopeNode) {
		lines = append(lines, strings.Repeat("  ", ev.Depth)+ev.Name+"> "+ev.Detail)
	}
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "CompilationUnit> ")
	assert.Contains(t, joined, "  Variable_SystemInt32> public sync Count")
	assert.Contains(t, joined, "  Variable_SystemInt32> public sync b 0")
	assert.Contains(t, joined, "  Variable_UnityEngineTransform> Child")
	assert.Contains(t, joined, "  ExpressionStatement> Count++")
	assert.Contains(t, joined, "  IfStatement> if (Count % 2 == 0)")
	assert.Empty(t, ring.Filter(trace.ScopeToken), "tokens are debug-only")

	passes := ring.Filter(trace.ScopePass)
	require.Len(t, passes, 2)
	assert.Equal(t, "lower", passes[0].Name)

	debug := trace.NewRingTracer(4096, trace.LevelDebug)
	_, _, err = lowerSource(t, "using UnityEngine; public int Count = 0;", Options{Tracer: debug})
	require.NoError(t, err)
	var tokens []string
	for _, ev := range debug.Filter(trace.ScopeToken) {
		tokens = append(tokens, ev.Name)
	}
	assert.Contains(t, tokens, "UsingKeyword")
	assert.Contains(t, tokens, "PublicKeyword")
}

// countingVisitor records dispatch without descending into members.
type countingVisitor struct {
	fields, methods, other int
}

func (c *countingVisitor) VisitField(*Walker, ast.DeclID, int) error  { c.fields++; return nil }
func (c *countingVisitor) VisitMethod(*Walker, ast.DeclID, int) error { c.methods++; return nil }
func (c *countingVisitor) VisitDefault(w *Walker, n ast.Node, depth int) error {
	c.other++
	return w.Descend(n, depth)
}

func TestWalkerDispatch(t *testing.T) {
	unit := bindUnit(t, exampleSource)
	v := &countingVisitor{}
	require.NoError(t, NewWalker(unit, v, nil).Walk())
	assert.Equal(t, 1+1, v.fields) // two field declarations
	assert.Equal(t, 2, v.methods)
	// compilation unit, three usings with their names, the attribute list
	assert.Positive(t, v.other)
}

func TestLowerRejectsEmptyUnit(t *testing.T) {
	_, err := Lower(Unit{}, graph.NewBuilder("x", nil), Options{})
	assert.Error(t, err)
}
