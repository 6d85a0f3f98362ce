package parser

import (
	"testing"

	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/lexer"
	"udonc/internal/source"
)

type parsed struct {
	fs   *source.FileSet
	b    *ast.Builder
	file *ast.File
	bag  *diag.Bag
}

func parseSource(t *testing.T, src string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cs", []byte(src))
	bag := diag.NewBag(100)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{})
	res := ParseFile(fs, lx, b, Options{Reporter: rep, MaxErrors: 50})
	return parsed{fs: fs, b: b, file: b.Files.Get(res.File), bag: bag}
}

func parseOK(t *testing.T, src string) parsed {
	t.Helper()
	p := parseSource(t, src)
	if p.bag.HasErrors() {
		t.Fatalf("unexpected diagnostics for %q:\n%s", src, diag.FormatShort(p.bag.Items(), p.fs, true))
	}
	return p
}

func (p parsed) text(sp source.Span) string {
	return p.fs.Text(sp)
}

func (p parsed) decl(id ast.DeclID) *ast.Decl {
	return p.b.Decls.Get(id)
}

// onlyMember returns the single member of the single top-level class.
func (p parsed) classMembers(t *testing.T) []ast.DeclID {
	t.Helper()
	if len(p.file.Members) != 1 {
		t.Fatalf("expected one top-level declaration, got %d", len(p.file.Members))
	}
	cls := p.decl(p.file.Members[0])
	if !cls.Kind.IsTypeDeclaration() {
		t.Fatalf("top-level declaration is %v", cls.Kind)
	}
	return cls.Members
}

func (p parsed) hasCode(code diag.Code) bool {
	for _, d := range p.bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}
