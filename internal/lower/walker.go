// Package lower walks a bound syntax tree and turns recognized declarations
// into graph nodes.
package lower

import (
	"udonc/internal/ast"
	"udonc/internal/sema"
	"udonc/internal/source"
	"udonc/internal/trace"
)

// Unit is one parsed and bound source file.
type Unit struct {
	Files *source.FileSet
	AST   *ast.Builder
	File  ast.FileID
	Model *sema.Model
}

// Visitor handles the node kinds the walker dispatches on. VisitDefault
// receives everything that is neither a field nor a method and decides
// whether to descend (Walker.Descend).
type Visitor interface {
	VisitField(w *Walker, id ast.DeclID, depth int) error
	VisitMethod(w *Walker, id ast.DeclID, depth int) error
	VisitDefault(w *Walker, n ast.Node, depth int) error
}

// Walker drives a Visitor over a Unit.
type Walker struct {
	Unit   Unit
	Tracer trace.Tracer

	visitor Visitor
	nodes   int
	tokens  int
}

func NewWalker(unit Unit, visitor Visitor, tracer trace.Tracer) *Walker {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Walker{Unit: unit, Tracer: tracer, visitor: visitor}
}

// Walk visits the compilation unit.
func (w *Walker) Walk() error {
	return w.Visit(ast.FileNode(w.Unit.File), 0)
}

// Visit dispatches one node.
func (w *Walker) Visit(n ast.Node, depth int) error {
	if !n.IsValid() {
		return nil
	}
	w.nodes++
	switch n.Kind {
	case ast.FieldDeclaration:
		return w.visitor.VisitField(w, ast.DeclID(n.ID), depth)
	case ast.MethodDeclaration:
		return w.visitor.VisitMethod(w, ast.DeclID(n.ID), depth)
	default:
		return w.visitor.VisitDefault(w, n, depth)
	}
}

// Descend visits the children of n one level deeper; tokens are traced at
// debug level only.
func (w *Walker) Descend(n ast.Node, depth int) error {
	for _, el := range w.Unit.AST.Children(n) {
		if el.IsToken() {
			w.tokens++
			if w.traces(trace.ScopeToken) {
				trace.Token(w.Tracer, depth+1, el.Token.Kind.String(), el.Token.Text)
			}
			continue
		}
		if err := w.Visit(el.Node, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// TraceNode emits "Kind> text" for n.
func (w *Walker) TraceNode(n ast.Node, depth int) {
	if w.traces(trace.ScopeNode) {
		trace.Node(w.Tracer, depth, n.Kind.String(), w.Text(n))
	}
}

// Text returns the source text of a node.
func (w *Walker) Text(n ast.Node) string {
	return w.Unit.Files.Text(w.Unit.AST.Span(n))
}

func (w *Walker) traces(scope trace.Scope) bool {
	return w.Tracer.Enabled() && w.Tracer.Level().ShouldEmit(scope)
}

// Visited returns how many nodes and tokens the walk touched.
func (w *Walker) Visited() (nodes, tokens int) { return w.nodes, w.tokens }
