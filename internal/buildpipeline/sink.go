package buildpipeline

import (
	"fmt"

	"udonc/internal/trace"
)

// ChannelSink forwards events into a channel. Once Done is closed events are
// dropped, so a consumer that stopped reading never blocks the batch.
type ChannelSink struct {
	Ch   chan<- Event
	Done <-chan struct{}
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	if s.Done == nil {
		s.Ch <- evt
		return
	}
	select {
	case s.Ch <- evt:
	case <-s.Done:
	}
}

// TraceSink reports file state changes as driver-scope trace points.
type TraceSink struct {
	Tracer trace.Tracer
}

func (s TraceSink) OnEvent(evt Event) {
	if s.Tracer == nil || !s.Tracer.Enabled() || evt.Status == StatusQueued {
		return
	}
	file := evt.File
	if file == "" {
		file = "batch"
	}
	detail := fmt.Sprintf("%s %s %s", file, evt.Stage, evt.Status)
	if evt.Err != nil {
		detail += ": " + evt.Err.Error()
	}
	trace.Point(s.Tracer, trace.ScopeDriver, "progress", detail)
}

// MultiSink fans events out to several sinks; nil entries are skipped.
type MultiSink []ProgressSink

func (m MultiSink) OnEvent(evt Event) {
	for _, s := range m {
		if s != nil {
			s.OnEvent(evt)
		}
	}
}
