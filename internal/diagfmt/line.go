package diagfmt

import (
	"fmt"
	"io"

	"udonc/internal/diag"
	"udonc/internal/source"
)

// LineString renders the echo form of a diagnostic:
//
//	[Severity:CODE] [start..end) message
//	snippet
func LineString(d diag.Diagnostic, fs *source.FileSet) string {
	return fmt.Sprintf("[%s:%s] %s", d.Severity.Title(), d.Code.ID(), EchoDetail(d, fs))
}

// EchoDetail is LineString without the bracketed severity/code prefix.
// Trace sinks add that prefix themselves.
func EchoDetail(d diag.Diagnostic, fs *source.FileSet) string {
	snippet := ""
	if fs != nil && fs.Get(d.Primary.File) != nil {
		snippet = fs.Text(d.Primary)
	}
	return fmt.Sprintf("%s %s\n%s", d.Primary.Range(), d.Message, snippet)
}

// Line writes every diagnostic of bag in echo form, one per entry.
func Line(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil {
		return nil
	}
	for _, d := range bag.Items() {
		if _, err := fmt.Fprintln(w, LineString(d, fs)); err != nil {
			return err
		}
	}
	return nil
}
