// Package testkit holds structural checks shared by parser and fuzz tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"udonc/internal/ast"
	"udonc/internal/source"
)

// CheckSpanInvariants walks a parsed file and verifies:
// 1) the file span starts at 0 and ends within the content;
// 2) every top-level using and member has a non-empty span inside the file span;
// 3) every node and token below the file points into the same file and stays
// within the content.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	if f.Span.Start != 0 || f.Span.End > lenContent {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, lenContent)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}

	top := make([]ast.DeclID, 0, len(f.Usings)+len(f.Members))
	top = append(append(top, f.Usings...), f.Members...)
	for _, id := range top {
		d := b.Decls.Get(id)
		if d == nil {
			return fmt.Errorf("nil declaration for id=%d", id)
		}
		sp := d.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty %s span: %v", d.Kind, sp)
		}
		if sp.Start < f.Span.Start || sp.End > f.Span.End {
			return fmt.Errorf("%s span %v is outside file span %v", d.Kind, sp, f.Span)
		}
	}

	w := walker{b: b, file: sf.ID, limit: lenContent}
	return w.node(ast.FileNode(fileID))
}

type walker struct {
	b     *ast.Builder
	file  source.FileID
	limit uint32
}

func (w walker) check(what string, sp source.Span) error {
	if sp.File != w.file {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, w.file)
	}
	if sp.Start > sp.End || sp.End > w.limit {
		return fmt.Errorf("%s span %v outside content of %d bytes", what, sp, w.limit)
	}
	return nil
}

func (w walker) node(n ast.Node) error {
	if err := w.check(n.Kind.String(), w.b.Span(n)); err != nil {
		return err
	}
	for _, el := range w.b.Children(n) {
		if el.IsToken() {
			if err := w.check(el.Token.Kind.String(), el.Token.Span); err != nil {
				return err
			}
			continue
		}
		if err := w.node(el.Node); err != nil {
			return err
		}
	}
	return nil
}
