package sema

import (
	"strings"
	"testing"

	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/lexer"
	"udonc/internal/parser"
	"udonc/internal/refs"
	"udonc/internal/source"
)

type bound struct {
	fs    *source.FileSet
	b     *ast.Builder
	file  ast.FileID
	model *Model
	bag   *diag.Bag
}

func bindWith(t *testing.T, src string, assemblies []refs.Assembly) bound {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cs", []byte(src))
	parseBag := diag.NewBag(100)
	rep := diag.BagReporter{Bag: parseBag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs, lx, b, parser.Options{Reporter: rep, MaxErrors: 50})
	if parseBag.HasErrors() {
		t.Fatalf("parse errors for %q:\n%s", src, diag.FormatShort(parseBag.Items(), fs, true))
	}
	bag := diag.NewBag(100)
	r := Bind(b, res.File, Options{Reporter: diag.BagReporter{Bag: bag}, References: assemblies})
	return bound{fs: fs, b: b, file: res.File, model: r.Model, bag: bag}
}

func bindSource(t *testing.T, src string) bound {
	t.Helper()
	return bindWith(t, src, refs.Builtin())
}

func bindOK(t *testing.T, src string) bound {
	t.Helper()
	bd := bindSource(t, src)
	if bd.bag.HasErrors() {
		t.Fatalf("unexpected errors for %q:\n%s", src, bd.dump())
	}
	return bd
}

func (bd bound) dump() string {
	return diag.FormatShort(bd.bag.Items(), bd.fs, true)
}

func (bd bound) codes(sev diag.Severity) []diag.Code {
	var out []diag.Code
	for _, d := range bd.bag.Items() {
		if d.Severity == sev {
			out = append(out, d.Code)
		}
	}
	return out
}

func (bd bound) has(code diag.Code) bool {
	for _, d := range bd.bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func (bd bound) expectError(t *testing.T, code diag.Code) {
	t.Helper()
	for _, d := range bd.bag.Items() {
		if d.Code == code && d.Severity == diag.SevError {
			return
		}
	}
	t.Fatalf("expected error %s, got:\n%s", code.ID(), bd.dump())
}

// varDecl finds the declarator (field or local) with the given name.
func (bd bound) varDecl(t *testing.T, name string) ast.VarID {
	t.Helper()
	for i, v := range bd.b.Decls.Vars.Slice() {
		if v.Name.Text == name {
			return ast.VarID(i + 1)
		}
	}
	t.Fatalf("no declarator %q", name)
	return ast.NoVarID
}

// fieldType returns the bound type of field name.
func (bd bound) fieldType(t *testing.T, name string) *Symbol {
	t.Helper()
	f, ok := bd.model.VarSymbol(bd.varDecl(t, name))
	if !ok {
		t.Fatalf("field %q has no symbol:\n%s", name, bd.dump())
	}
	typ := bd.model.Symbol(f.Type)
	if typ == nil {
		t.Fatalf("field %q has no type:\n%s", name, bd.dump())
	}
	return typ
}

// declByName finds the first declaration with the given name.
func (bd bound) declByName(t *testing.T, name string) ast.DeclID {
	t.Helper()
	for i, d := range bd.b.Decls.Arena.Slice() {
		if d.Name.Text == name {
			return ast.DeclID(i + 1)
		}
	}
	t.Fatalf("no declaration %q", name)
	return ast.NoDeclID
}

func lines(s ...string) string { return strings.Join(s, "\n") }
