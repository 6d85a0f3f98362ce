package trace

import "time"

// Severity tags carried by diag-scope events.
const (
	SeverityError   = "Error"
	SeverityWarning = "Warning"
	SeverityInfo    = "Info"
)

// Point emits an instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:   time.Now(),
		Kind:   KindPoint,
		Scope:  scope,
		Name:   name,
		Detail: detail,
	})
}

// Node emits a traversal step for a syntax node at the given depth.
func Node(t Tracer, depth int, kind, text string) {
	emitTree(t, ScopeNode, depth, kind, text)
}

// Token emits a traversal step for a token at the given depth.
func Token(t Tracer, depth int, kind, text string) {
	emitTree(t, ScopeToken, depth, kind, text)
}

func emitTree(t Tracer, scope Scope, depth int, kind, text string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:   time.Now(),
		Kind:   KindPoint,
		Scope:  scope,
		Depth:  depth,
		Name:   kind,
		Detail: text,
	})
}

// Diagnostic echoes one diagnostic. detail is "[start..end) message\nsnippet".
func Diagnostic(t Tracer, severity, code, detail string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(ScopeDiag) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    ScopeDiag,
		Severity: severity,
		Code:     code,
		Name:     "diagnostic",
		Detail:   detail,
	})
}
