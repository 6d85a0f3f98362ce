package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":       LevelOff,
		"off":    LevelOff,
		"ERROR":  LevelError,
		"phase":  LevelPhase,
		"Detail": LevelDetail,
		"debug":  LevelDebug,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDiag, false},
		{LevelError, ScopeDiag, true},
		{LevelError, ScopePass, false},
		{LevelPhase, ScopeDriver, true},
		{LevelPhase, ScopeNode, false},
		{LevelDetail, ScopeNode, true},
		{LevelDetail, ScopeToken, false},
		{LevelDebug, ScopeToken, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%v.ShouldEmit(%v) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestTextFormatGolden(t *testing.T) {
	ring := NewRingTracer(64, LevelDebug)
	span := Begin(ring, ScopePass, "lower", 0)
	Node(ring, 0, "CompilationUnit", "public int Count = 0;")
	Node(ring, 1, "FieldDeclaration", "public int Count = 0;")
	Token(ring, 2, "PublicKeyword", "public")
	Diagnostic(ring, SeverityWarning, "SEM3012", "[11..16) field 'Count' is never used\npublic int Count = 0;")
	span.WithExtra("nodes", "1").WithExtra("fields", "1").End("done")

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "lower_text", buf.Bytes())
}

func TestLevelGatesNodeEvents(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	Node(ring, 0, "FieldDeclaration", "int x;")
	Token(ring, 1, "IntKeyword", "int")
	Diagnostic(ring, SeverityInfo, "SEM3013", "unused")

	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Scope != ScopeNode || events[1].Scope != ScopeDiag {
		t.Fatalf("unexpected scopes: %v, %v", events[0].Scope, events[1].Scope)
	}
	if len(ring.Filter(ScopeToken)) != 0 {
		t.Fatal("token events must be dropped below debug")
	}
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopePass, name, "")
	}
	events := ring.Snapshot()
	var names []string
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ","); got != "c,d,e" {
		t.Fatalf("snapshot = %s, want c,d,e", got)
	}

	ring.Reset()
	if n := len(ring.Snapshot()); n != 0 {
		t.Fatalf("after reset got %d events", n)
	}
}

func TestStreamRoutesErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	st := NewStreamTracer(&out, LevelError, FormatText).RouteErrors(&errOut)

	Diagnostic(st, SeverityError, "SYN2003", "[0..1) unclosed brace")
	Diagnostic(st, SeverityWarning, "SEM3011", "[0..5) duplicate using")

	if got := errOut.String(); got != "[Error:SYN2003] [0..1) unclosed brace\n" {
		t.Errorf("error sink = %q", got)
	}
	if got := out.String(); got != "[Warning:SEM3011] [0..5) duplicate using\n" {
		t.Errorf("main sink = %q", got)
	}
}

func TestNDJSON(t *testing.T) {
	var out bytes.Buffer
	st := NewStreamTracer(&out, LevelDebug, FormatNDJSON)
	Node(st, 2, "ReturnStatement", "return x;")

	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json %q: %v", out.String(), err)
	}
	if decoded["scope"] != "node" || decoded["name"] != "ReturnStatement" {
		t.Fatalf("unexpected event %v", decoded)
	}
	if decoded["depth"] != float64(2) {
		t.Fatalf("depth = %v", decoded["depth"])
	}
}

func TestMultiFansOut(t *testing.T) {
	a := NewRingTracer(4, LevelDebug)
	b := NewRingTracer(4, LevelPhase)
	m := NewMultiTracer(LevelDebug, a, b)
	Node(m, 0, "Block", "{}")
	Point(m, ScopePass, "bind", "")

	if len(a.Snapshot()) != 2 {
		t.Errorf("a got %d events", len(a.Snapshot()))
	}
	if len(b.Snapshot()) != 1 {
		t.Errorf("b got %d events", len(b.Snapshot()))
	}
}

func TestDisabledIsCheap(t *testing.T) {
	span := Begin(Nop, ScopePass, "parse", 0)
	if span.ID() != 0 {
		t.Fatal("nop span must have zero id")
	}
	span.WithExtra("k", "v").End("")
	Node(nil, 0, "x", "y")

	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("LevelOff must give a disabled tracer")
	}
	if StartHeartbeat(tr, time.Millisecond) != nil {
		t.Fatal("heartbeat must not start on a disabled tracer")
	}
	var h *Heartbeat
	h.Stop()
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("missing tracer must be Nop")
	}
	ring := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("tracer not propagated")
	}
	span := Begin(ring, ScopeDriver, "compile", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx).SpanID != span.ID() {
		t.Fatal("span not propagated")
	}
}

func TestNewRingMode(t *testing.T) {
	tr, err := New(Config{Level: LevelPhase, Mode: ModeRing, RingSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*RingTracer); !ok {
		t.Fatalf("got %T, want *RingTracer", tr)
	}
	if _, err := ParseMode("bogus"); err == nil {
		t.Fatal("expected error")
	}
}
