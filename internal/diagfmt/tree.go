package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"udonc/internal/ast"
	"udonc/internal/source"
)

// FormatTree dumps the syntax tree of a file one element per line:
//
//	NODE > FieldDeclaration> public int Count = 0;
//	TOKEN>  PublicKeyword> public
//
// Indentation grows by one space per level.
func FormatTree(w io.Writer, b *ast.Builder, file ast.FileID, fs *source.FileSet) error {
	return writeTreeNode(w, b, fs, ast.FileNode(file), 0)
}

func writeTreeNode(w io.Writer, b *ast.Builder, fs *source.FileSet, n ast.Node, level int) error {
	if _, err := fmt.Fprintf(w, "NODE >%s%s> %s\n", strings.Repeat(" ", level), n.Kind, oneLine(fs.Text(b.Span(n)))); err != nil {
		return err
	}
	for _, el := range b.Children(n) {
		if el.IsToken() {
			if _, err := fmt.Fprintf(w, "TOKEN>%s%s> %s\n", strings.Repeat(" ", level+1), el.Token.Kind, el.Token.Text); err != nil {
				return err
			}
			continue
		}
		if err := writeTreeNode(w, b, fs, el.Node, level+1); err != nil {
			return err
		}
	}
	return nil
}

// oneLine folds a multi-line node text so every tree entry stays on one line.
func oneLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}
