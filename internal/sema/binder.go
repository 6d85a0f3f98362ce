package sema

import (
	"udonc/internal/ast"
	"udonc/internal/diag"
	"udonc/internal/refs"
	"udonc/internal/source"
)

// Options configure a bind over a parsed file.
type Options struct {
	Reporter   diag.Reporter
	References []refs.Assembly // offered assemblies, already filtered by refs.Usable
	Strings    *source.Interner
}

// Result stores semantic artefacts produced by the binder.
type Result struct {
	Model *Model
}

// ScriptTypeName names the implicit class holding members declared outside
// any type.
const ScriptTypeName = "<Script>"

// Bind resolves declarations of one file and reports semantic diagnostics.
func Bind(builder *ast.Builder, fileID ast.FileID, opts Options) Result {
	table := NewTable(opts.Strings)
	table.Import(opts.References)
	res := Result{Model: newModel(table)}
	if builder == nil || builder.Files.Get(fileID) == nil {
		return res
	}

	bd := &binder{
		b:        builder,
		file:     fileID,
		table:    table,
		model:    res.Model,
		reporter: opts.Reporter,
		used:     make(map[string]struct{}),
	}
	bd.run()
	return res
}

type binder struct {
	b        *ast.Builder
	file     ast.FileID
	table    *Table
	model    *Model
	reporter diag.Reporter
	quiet    int

	script    SymbolID
	types     []typeDecl
	stray     []strayMember
	pending   []pendingLevel
	levels    []*level
	members   []memberDecl
	fields    []SymbolID
	used      map[string]struct{} // identifiers referenced from code
	attrTypes map[SymbolID]bool
}

// scope is the lookup context of a declaration: using levels innermost
// first (the last one is the global namespace) and enclosing types.
type scope struct {
	levels []*level
	types  []SymbolID
}

func (s scope) withType(t SymbolID) scope {
	types := make([]SymbolID, 0, len(s.types)+1)
	types = append(types, t)
	types = append(types, s.types...)
	return scope{levels: s.levels, types: types}
}

// level is one namespace step of the lookup chain with its using directives.
type level struct {
	ns      SymbolID
	aliases map[string]*usingEntry
	imports []*usingEntry
	statics []*usingEntry
	all     []*usingEntry
}

type usingEntry struct {
	decl   ast.DeclID
	target SymbolID
	span   source.Span
	used   bool
}

type pendingLevel struct {
	lvl    *level
	outer  scope
	usings []ast.DeclID
}

type typeDecl struct {
	decl ast.DeclID
	sym  SymbolID
	sc   scope // scope of the declaration site (without the type itself)
}

type strayMember struct {
	decl ast.DeclID
	sc   scope
}

type memberDecl struct {
	decl  ast.DeclID
	owner SymbolID
	sc    scope // includes owner
}

func (bd *binder) run() {
	f := bd.b.Files.Get(bd.file)
	global := &level{ns: bd.table.Global}
	bd.declareContainer(global, scope{}, f.Usings, f.Members)

	for _, p := range bd.pending {
		bd.bindUsings(p)
	}
	bd.bindBases()
	bd.declareMembers()
	bd.bindBodies()
	bd.checkUnusedFields()
	bd.checkUnusedUsings()
}

func (bd *binder) report(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes ...diag.Note) {
	if bd.quiet > 0 || bd.reporter == nil {
		return
	}
	bd.reporter.Report(code, sev, sp, msg, notes)
}

func (bd *binder) errorf(code diag.Code, sp source.Span, msg string, notes ...diag.Note) {
	bd.report(code, diag.SevError, sp, msg, notes...)
}

func (bd *binder) name(id SymbolID) string {
	return bd.table.NameOf(id)
}

func (bd *binder) display(id SymbolID) string {
	return bd.table.Display(id)
}
