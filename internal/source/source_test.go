package source

import "testing"

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("Example.cs", []byte("class A {}"), 0)
	id2 := fs.Add("Example.cs", []byte("class B {}"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("Example.cs")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "class A {}" {
		t.Fatalf("old version lost: %q", got)
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("host.cs", []byte("\xEF\xBB\xBFint a;\r\nint b;\r\n"))
	f := fs.Get(id)
	if string(f.Content) != "int a;\nint b;\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 || f.Flags&FileVirtual == 0 {
		t.Fatalf("flags not recorded: %b", f.Flags)
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.cs", []byte("ab\ncd\n\nef"), 0)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // сам перевод строки принадлежит первой строке
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLineAndSlice(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.cs", []byte("first\nsecond\nthird"), 0)
	f := fs.Get(id)

	for n, want := range map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""} {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
	if got := fs.Text(Span{File: id, Start: 6, End: 12}); got != "second" {
		t.Errorf("Text = %q", got)
	}
	if got := f.Slice(Span{File: id, Start: 15, End: 100}); got != "ird" {
		t.Errorf("clamped Slice = %q", got)
	}
}

func TestSpanCoverAndRange(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("cross-file Cover must keep receiver, got %v", got)
	}
	if !a.Cover(b).Contains(a) {
		t.Fatalf("cover must contain a")
	}
	if a.Range() != "[4..8)" {
		t.Fatalf("Range = %q", a.Range())
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("Count")
	b := in.Intern("Count")
	if a != b || a == NoStringID {
		t.Fatalf("intern not stable: %d %d", a, b)
	}
	if s := in.MustLookup(a); s != "Count" {
		t.Fatalf("lookup = %q", s)
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatalf("unknown id must not resolve")
	}
	if in.Len() != 2 {
		t.Fatalf("Len = %d", in.Len())
	}
}
