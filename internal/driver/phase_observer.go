package driver

import (
	"time"

	"udonc/internal/observ"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a compilation phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// Phase names reported to observers.
const (
	PhaseParse = "parse"
	PhaseBind  = "bind"
	PhaseLower = "lower"
)

// PhaseEvent describes a timing phase boundary of one file.
type PhaseEvent struct {
	File    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Err     error // set on PhaseEnd when the phase failed
}

// PhaseObserver receives phase events. CompileFiles calls it from several
// goroutines, so implementations must be safe for concurrent use.
type PhaseObserver func(PhaseEvent)

// phases pairs an observ.Timer with an optional observer.
type phases struct {
	file     string
	observer PhaseObserver
	timer    *observ.Timer
}

func (p *phases) begin(name string) (int, time.Time) {
	idx := -1
	if p.timer != nil {
		idx = p.timer.Begin(name)
	}
	if p.observer != nil {
		p.observer(PhaseEvent{File: p.file, Name: name, Status: PhaseStart})
	}
	return idx, time.Now()
}

func (p *phases) end(name string, idx int, started time.Time, err error) {
	note := ""
	if err != nil {
		note = "failed"
	}
	if p.timer != nil {
		p.timer.End(idx, note)
	}
	if p.observer != nil {
		p.observer(PhaseEvent{File: p.file, Name: name, Status: PhaseEnd, Elapsed: time.Since(started), Err: err})
	}
}
