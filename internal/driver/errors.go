package driver

import (
	"fmt"

	"udonc/internal/diag"
)

// ParseError reports that lexing or parsing produced error diagnostics.
// Diagnostics holds everything collected up to that point, warnings included.
type ParseError struct {
	Path        string
	Diagnostics []diag.Diagnostic
}

func (e *ParseError) Error() string {
	return summarize(e.Path, "syntax", e.Diagnostics)
}

// BindError reports that binding produced error diagnostics.
type BindError struct {
	Path        string
	Diagnostics []diag.Diagnostic
}

func (e *BindError) Error() string {
	return summarize(e.Path, "semantic", e.Diagnostics)
}

// summarize: "<path>: N semantic error(s), first: SEM3001 message".
func summarize(path, stage string, ds []diag.Diagnostic) string {
	var first *diag.Diagnostic
	count := 0
	for i := range ds {
		if ds[i].Severity < diag.SevError {
			continue
		}
		if first == nil {
			first = &ds[i]
		}
		count++
	}
	if first == nil {
		return fmt.Sprintf("%s: %s errors", path, stage)
	}
	return fmt.Sprintf("%s: %d %s error(s), first: %s %s", path, count, stage, first.Code.ID(), first.Message)
}
