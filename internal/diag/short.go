package diag

import (
	"fmt"
	"strings"

	"udonc/internal/source"
)

// FormatShort renders diagnostics one per line as
// "severity CODE path:line:col message". Notes follow their diagnostic
// with severity "note" when includeNotes is set.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, shortLine(severityLabel(d.Severity), d.Code, d.Primary, d.Message, fs))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, shortLine("note", d.Code, n.Span, n.Msg, fs))
		}
	}
	return strings.Join(lines, "\n")
}

func shortLine(sev string, code Code, span source.Span, msg string, fs *source.FileSet) string {
	path := fs.Get(span.File).Path
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s %s %s:%d:%d %s", sev, code.ID(), path, start.Line, start.Col, sanitizeMessage(msg))
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
