// Package buildpipeline runs batch compiles: every source goes through the
// driver, successful graphs are handed to an asset sink, and progress is
// reported as a stream of events.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"udonc/internal/asset"
	"udonc/internal/driver"
	"udonc/internal/trace"
)

// CompileRequest configures one batch.
type CompileRequest struct {
	Files    []string
	Options  driver.Options
	Output   asset.Sink // nil = do not persist graphs
	Jobs     int        // <= 0 = GOMAXPROCS
	Progress ProgressSink
}

// FileResult is the outcome of one source file.
type FileResult struct {
	Path   string
	Result *driver.Result
	Asset  string // written asset path, empty when nothing was written
	Err    error
}

// CompileResult aggregates a batch.
type CompileResult struct {
	Files   []FileResult
	Failed  int
	Timings Timings
}

// ErrFilesFailed is returned by Compile when at least one file failed.
var ErrFilesFailed = errors.New("some files failed to compile")

// Compile runs the batch. Files fail independently: a failing file is
// recorded in its FileResult and the others still compile and get written.
func Compile(ctx context.Context, req *CompileRequest) (CompileResult, error) {
	var result CompileResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing compile request")
	}
	if len(req.Files) == 0 {
		return result, fmt.Errorf("no files to compile")
	}

	// трассировщик берётся из контекста команды
	tracer := trace.FromContext(ctx)
	progress := req.Progress
	if tracer.Enabled() {
		progress = MultiSink{req.Progress, TraceSink{Tracer: tracer}}
	}
	span := trace.Begin(tracer, trace.ScopeDriver, "batch", 0).WithExtra("files", strconv.Itoa(len(req.Files)))
	defer func() { span.End(fmt.Sprintf("%d failed", result.Failed)) }()

	emitQueued(progress, req.Files)
	obs := &phaseObserver{sink: progress, next: req.Options.Observer}
	opts := req.Options
	opts.Observer = obs.OnPhase

	outcomes, err := driver.CompileFiles(ctx, req.Files, opts, req.Jobs)
	result.Files = make([]FileResult, len(outcomes))
	for i, out := range outcomes {
		fr := FileResult{Path: req.Files[i], Result: out.Result, Err: out.Err}
		if fr.Err == nil && req.Output != nil && out.Result != nil && out.Result.Graph != nil {
			fr.Asset, fr.Err = writeAsset(progress, req.Output, &result.Timings, fr.Path, out.Result)
		}
		if fr.Err != nil {
			result.Failed++
			emitFile(progress, fr.Path, failedStage(fr.Err), StatusError, fr.Err)
		} else {
			emitFile(progress, fr.Path, StageWrite, StatusDone, nil)
		}
		result.Files[i] = fr
	}
	obs.addTimings(&result.Timings)

	if err != nil {
		emitOverall(progress, StatusError, err)
		return result, err
	}
	if result.Failed > 0 {
		emitOverall(progress, StatusError, ErrFilesFailed)
		return result, fmt.Errorf("%w: %d of %d", ErrFilesFailed, result.Failed, len(result.Files))
	}
	emitOverall(progress, StatusDone, nil)
	return result, nil
}

func writeAsset(sink ProgressSink, out asset.Sink, timings *Timings, path string, res *driver.Result) (string, error) {
	emitFile(sink, path, StageWrite, StatusWorking, nil)
	start := time.Now()
	written, err := out.Write(path, res.Graph)
	timings.Add(StageWrite, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return written, nil
}

// failedStage maps a file error to the stage it came from.
func failedStage(err error) Stage {
	var (
		perr *driver.ParseError
		berr *driver.BindError
	)
	switch {
	case errors.As(err, &perr):
		return StageParse
	case errors.As(err, &berr):
		return StageBind
	default:
		return StageLower
	}
}

// phaseObserver turns driver phase events into progress events and sums
// phase durations per stage. Called concurrently by driver.CompileFiles.
type phaseObserver struct {
	sink ProgressSink
	next driver.PhaseObserver

	mu    sync.Mutex
	total map[Stage]time.Duration
}

func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	if p.next != nil {
		p.next(ev)
	}
	stage := stageOf(ev.Name)
	if stage == "" {
		return
	}
	if ev.Status == driver.PhaseStart {
		emitFile(p.sink, ev.File, stage, StatusWorking, nil)
		return
	}
	p.mu.Lock()
	if p.total == nil {
		p.total = make(map[Stage]time.Duration)
	}
	p.total[stage] += ev.Elapsed
	p.mu.Unlock()
}

func (p *phaseObserver) addTimings(t *Timings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for stage, d := range p.total {
		t.Add(stage, d)
	}
}

func stageOf(phase string) Stage {
	switch phase {
	case driver.PhaseParse:
		return StageParse
	case driver.PhaseBind:
		return StageBind
	case driver.PhaseLower:
		return StageLower
	default:
		return ""
	}
}

// DisplayPath is the key progress events use for a file, matching the path
// the driver reports for it.
func DisplayPath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: DisplayPath(file), Stage: StageParse, Status: StatusQueued})
	}
}

func emitFile(sink ProgressSink, file string, stage Stage, status Status, err error) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: DisplayPath(file), Stage: stage, Status: status, Err: err})
}

func emitOverall(sink ProgressSink, status Status, err error) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: StageWrite, Status: status, Err: err})
}
