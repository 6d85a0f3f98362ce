package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"udonc/internal/prof"
	"udonc/internal/project"
	"udonc/internal/trace"
)

// settings is udonc.toml with command-line overrides applied.
type settings struct {
	cfg         project.Config
	configFound bool
	color       bool
	quiet       bool
	timings     bool
	tracer      trace.Tracer
}

// loadSettings reads the config (explicit --config or discovered) and applies
// persistent flags on top. The returned cleanup flushes the tracer.
func loadSettings(cmd *cobra.Command) (*settings, func(), error) {
	flags := cmd.Flags()
	s := &settings{}

	cfgPath, err := flags.GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if cfgPath != "" {
		s.cfg, err = project.LoadFile(cfgPath)
		s.configFound = err == nil
	} else {
		s.cfg, s.configFound, err = project.Discover(".")
	}
	if err != nil {
		return nil, nil, err
	}

	if flags.Changed("verbose") {
		if s.cfg.Compiler.Verbose, err = flags.GetBool("verbose"); err != nil {
			return nil, nil, err
		}
	}
	if flags.Changed("trace-level") {
		if s.cfg.Compiler.TraceLevel, err = flags.GetString("trace-level"); err != nil {
			return nil, nil, err
		}
	}
	if flags.Changed("max-diagnostics") {
		if s.cfg.Compiler.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, nil, err
		}
	}
	if flags.Changed("no-cache") {
		noCache, err := flags.GetBool("no-cache")
		if err != nil {
			return nil, nil, err
		}
		s.cfg.Catalog.Cache = !noCache
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, nil, err
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, nil, err
	}
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, nil, err
	}
	if s.color, err = useColor(colorFlag, os.Stderr); err != nil {
		return nil, nil, err
	}
	color.NoColor = !s.color

	stopTracing, err := setupTracing(cmd, s)
	if err != nil {
		return nil, nil, err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		stopTracing()
		return nil, nil, err
	}
	return s, func() {
		stopProfiling()
		stopTracing()
	}, nil
}

// setupProfiling starts the profilers requested by --cpu-profile and
// --mem-profile.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Flags()
	cpuProfile, err := flags.GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := flags.GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	session, err := prof.Start(cpuProfile, memProfile)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}

func useColor(mode string, f *os.File) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		return isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

// setupTracing builds the tracer from the trace flags and the config and
// attaches it to the command context. Verbose mode raises the level to at
// least error so diagnostics are echoed.
func setupTracing(cmd *cobra.Command, s *settings) (func(), error) {
	flags := cmd.Flags()
	level := s.cfg.TraceLevel()
	if s.cfg.Compiler.Verbose && level < trace.LevelError {
		level = trace.LevelError
	}
	if level == trace.LevelOff {
		s.tracer = trace.Nop
		cmd.SetContext(trace.WithTracer(commandContext(cmd), trace.Nop))
		return func() {}, nil
	}

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	}
	if traceOutput == "" {
		// эхо диагностик идёт в stdout, ошибки в stderr
		cfg.Output = writerOnly{cmd.OutOrStdout()}
		cfg.ErrOutput = writerOnly{cmd.ErrOrStderr()}
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	s.tracer = tracer
	cmd.SetContext(trace.WithTracer(commandContext(cmd), tracer))

	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}

	cleanup := func() {
		if heartbeat != nil {
			heartbeat.Stop()
		}
		// кольцевой буфер никуда не пишет сам
		if ring, ok := tracer.(*trace.RingTracer); ok {
			if err := ring.Dump(cmd.ErrOrStderr(), format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// writerOnly hides Close so the tracer never closes stdout.
type writerOnly struct{ io.Writer }
