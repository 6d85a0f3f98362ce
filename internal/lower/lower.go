package lower

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"udonc/internal/ast"
	"udonc/internal/catalog"
	"udonc/internal/graph"
	"udonc/internal/trace"
	"udonc/internal/typename"
)

// serializeField is the attribute that marks a field as synced.
const serializeField = "UnityEngine.SerializeField"

// Slot layout of a variable node.
const (
	SlotValue = iota
	SlotName
	SlotPublic
	SlotSync
)

// Options configure one lowering.
type Options struct {
	Catalog  *catalog.Catalog
	Resolver typename.Resolver
	Tracer   trace.Tracer
	// WriteSyncSlot stores the SerializeField flag in SlotSync.
	WriteSyncSlot bool
}

// Stats counts what a lowering did.
type Stats struct {
	Fields     int // declarators seen
	Emitted    int // nodes created
	Skipped    int // declarators without a catalog definition
	Methods    int
	Statements int // top-level method statements traced
	Nodes      int
	Tokens     int
}

// Lower walks unit and appends one node per field declarator whose type has
// a variable definition in the catalog. Type resolution failures abort the
// walk with a *typename.ResolutionError.
func Lower(unit Unit, b *graph.Builder, opts Options) (Stats, error) {
	if unit.AST == nil || unit.Model == nil || !unit.File.IsValid() {
		return Stats{}, errors.New("lower: empty unit")
	}
	if opts.Catalog == nil {
		return Stats{}, errors.New("lower: no catalog")
	}
	l := &lowerer{graph: b, opts: opts}
	w := NewWalker(unit, l, opts.Tracer)

	span := trace.Begin(w.Tracer, trace.ScopePass, "lower", 0)
	err := w.Walk()
	l.stats.Nodes, l.stats.Tokens = w.Visited()
	span.WithExtra("fields", strconv.Itoa(l.stats.Fields)).
		WithExtra("emitted", strconv.Itoa(l.stats.Emitted)).
		End(status(err))
	return l.stats, err
}

func status(err error) string {
	if err != nil {
		return "failed"
	}
	return "done"
}

// lowerer is the Visitor that builds the graph.
type lowerer struct {
	graph *graph.Builder
	opts  Options
	stats Stats
}

func (l *lowerer) VisitDefault(w *Walker, n ast.Node, depth int) error {
	w.TraceNode(n, depth)
	return w.Descend(n, depth)
}

func (l *lowerer) VisitMethod(w *Walker, id ast.DeclID, depth int) error {
	l.stats.Methods++
	d := w.Unit.AST.Decls.Get(id)
	w.TraceNode(w.Unit.AST.DeclNode(id), depth)
	body := w.Unit.AST.Stmts.Get(d.Body)
	if body == nil || body.Kind != ast.Block {
		return nil
	}
	for _, sid := range body.Stmts {
		l.stats.Statements++
		w.TraceNode(w.Unit.AST.StmtNode(sid), depth+1)
	}
	return nil
}

func (l *lowerer) VisitField(w *Walker, id ast.DeclID, depth int) error {
	u := w.Unit
	d := u.AST.Decls.Get(id)
	w.TraceNode(u.AST.DeclNode(id), depth)

	name, err := l.opts.Resolver.Resolve(d.Type, u.Model)
	if err != nil {
		start, _ := u.Files.Resolve(d.Span)
		return fmt.Errorf("field at %d:%d: %w", start.Line, start.Col, err)
	}
	key := name.LookupKey()
	public := d.Mods.Has(ast.ModPublic)
	sync := l.synced(w, d)

	for _, vid := range d.Vars {
		v := u.AST.Decls.Var(vid)
		if v == nil {
			continue
		}
		l.stats.Fields++
		var init *graph.Syntax
		if v.Init.IsValid() {
			n := u.AST.ExprNode(v.Init)
			init = &graph.Syntax{Kind: n.Kind.String(), Text: w.Text(n)}
		}

		entry, ok := l.opts.Catalog.Lookup(key)
		if ok {
			if err := l.emit(entry, v.Name.Text, init, public, sync); err != nil {
				return err
			}
		} else {
			l.stats.Skipped++
		}
		if w.traces(trace.ScopeNode) {
			trace.Node(w.Tracer, depth+1, key, describe(v.Name.Text, init, public, sync, ok))
		}
	}
	return nil
}

func (l *lowerer) emit(entry catalog.Entry, ident string, init *graph.Syntax, public, sync bool) error {
	h := l.graph.CreateNode(entry)
	if err := l.graph.PadSlots(h, graph.MinSlots); err != nil {
		return err
	}
	if init != nil {
		if err := l.graph.SetSlot(h, SlotValue, *init); err != nil {
			return err
		}
	}
	if err := l.graph.SetSlot(h, SlotName, ident); err != nil {
		return err
	}
	if err := l.graph.SetSlot(h, SlotPublic, public); err != nil {
		return err
	}
	if l.opts.WriteSyncSlot {
		if err := l.graph.SetSlot(h, SlotSync, sync); err != nil {
			return err
		}
	}
	l.stats.Emitted++
	return nil
}

// synced reports a SerializeField attribute; unbound attributes fall back
// to their written name.
func (l *lowerer) synced(w *Walker, d *ast.Decl) bool {
	if w.Unit.Model.HasAttribute(d.Attrs, serializeField) {
		return true
	}
	for _, aid := range d.Attrs {
		a := w.Unit.AST.Attrs.Get(aid)
		if a == nil {
			continue
		}
		if _, bound := w.Unit.Model.AttributeType(aid); bound {
			continue
		}
		dotted, ok := w.Unit.AST.DottedName(a.Name)
		if !ok {
			continue
		}
		last := dotted[strings.LastIndexByte(dotted, '.')+1:]
		if last == "SerializeField" || last == "SerializeFieldAttribute" {
			return true
		}
	}
	return false
}

func describe(ident string, init *graph.Syntax, public, sync, found bool) string {
	parts := make([]string, 0, 5)
	if public {
		parts = append(parts, "public")
	}
	if sync {
		parts = append(parts, "sync")
	}
	parts = append(parts, ident)
	if init != nil {
		parts = append(parts, init.Text)
	}
	if !found {
		parts = append(parts, "(no definition)")
	}
	return strings.Join(parts, " ")
}
