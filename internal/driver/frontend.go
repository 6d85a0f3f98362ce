// Package driver ties the compiler stages together: source text goes through
// the lexer, parser and binder (Frontend), then through lowering into a graph
// (Compile, CompileFiles).
package driver

import (
	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/diagfmt"
	"udonc/internal/lexer"
	"udonc/internal/lower"
	"udonc/internal/parser"
	"udonc/internal/refs"
	"udonc/internal/sema"
	"udonc/internal/source"
	"udonc/internal/trace"
)

// Frontend parses and binds source text against a set of reference
// assemblies. A zero Frontend binds against nothing, so every type outside
// the source itself is unknown.
type Frontend struct {
	References     []refs.Assembly
	Tracer         trace.Tracer
	MaxDiagnostics int
}

// SourceUnit is a parsed and bound file.
type SourceUnit struct {
	FileSet     *source.FileSet
	File        *source.File
	Builder     *ast.Builder
	ASTFile     ast.FileID
	Model       *sema.Model
	Diagnostics *diag.Bag
}

// Unit returns the view lowering works on.
func (u *SourceUnit) Unit() lower.Unit {
	return lower.Unit{Files: u.FileSet, AST: u.Builder, File: u.ASTFile, Model: u.Model}
}

// Compile parses and binds text under the given file name.
//
// On *ParseError or *BindError the returned unit is still non-nil so callers
// can render its diagnostics; it must not be lowered.
func (f Frontend) Compile(name, text string) (*SourceUnit, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(text))
	return f.run(fs, id, nil)
}

// CompileFile is Compile for a file on disk.
func (f Frontend) CompileFile(path string) (*SourceUnit, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return f.run(fs, id, nil)
}

func (f Frontend) tracer() trace.Tracer {
	if f.Tracer == nil {
		return trace.Nop
	}
	return f.Tracer
}

func (f Frontend) run(fs *source.FileSet, id source.FileID, ph *phases) (*SourceUnit, error) {
	if ph == nil {
		ph = &phases{}
	}
	tracer := f.tracer()
	file := fs.Get(id)
	span := trace.Begin(tracer, trace.ScopeDriver, "frontend", 0).WithExtra("file", file.Path)

	bag := diag.NewBag(f.MaxDiagnostics)
	// лексер и парсер при восстановлении могут повторить одну и ту же ошибку
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	unit := &SourceUnit{
		FileSet:     fs,
		File:        file,
		Builder:     ast.NewBuilder(ast.Hints{}),
		Diagnostics: bag,
	}

	idx, started := ph.begin(PhaseParse)
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	res := parser.ParseFile(fs, lx, unit.Builder, parser.Options{Reporter: rep, MaxErrors: maxErrors(f.MaxDiagnostics)})
	unit.ASTFile = res.File
	if bag.HasErrors() {
		err := &ParseError{Path: file.Path, Diagnostics: bag.Items()}
		ph.end(PhaseParse, idx, started, err)
		f.echo(tracer, unit)
		span.End("parse failed")
		return unit, err
	}
	ph.end(PhaseParse, idx, started, nil)

	idx, started = ph.begin(PhaseBind)
	bound := sema.Bind(unit.Builder, res.File, sema.Options{
		Reporter:   rep,
		References: refs.Usable(f.References),
	})
	unit.Model = bound.Model
	f.echo(tracer, unit)
	if bag.HasErrors() {
		err := &BindError{Path: file.Path, Diagnostics: bag.Items()}
		ph.end(PhaseBind, idx, started, err)
		span.End("bind failed")
		return unit, err
	}
	ph.end(PhaseBind, idx, started, nil)
	span.End("done")
	return unit, nil
}

// echo sends every diagnostic of the unit to the tracer in source order.
func (f Frontend) echo(t trace.Tracer, unit *SourceUnit) {
	if !t.Enabled() || !t.Level().ShouldEmit(trace.ScopeDiag) {
		return
	}
	unit.Diagnostics.Sort()
	for _, d := range unit.Diagnostics.Items() {
		trace.Diagnostic(t, d.Severity.Title(), d.Code.ID(), diagfmt.EchoDetail(d, unit.FileSet))
	}
}

func maxErrors(limit int) uint {
	if limit <= 0 {
		return 0
	}
	return uint(limit)
}
