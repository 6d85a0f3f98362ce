package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"udonc/internal/asset"
	"udonc/internal/buildpipeline"
	"udonc/internal/diag"
	"udonc/internal/diagfmt"
	"udonc/internal/driver"
	"udonc/internal/ui"
)

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [flags] <file.cs|directory>...",
		Short: "Compile C# sources into Udon graph assets",
		Long: `Compile parses, binds and lowers every source and writes <source>.asset
next to it. Directories are searched recursively for *.cs files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCompile,
	}
	f := cmd.Flags()
	f.String("format", "", "asset format (yaml|json; default from config)")
	f.String("suffix", "", "asset file suffix (default from config)")
	f.Bool("dry-run", false, "compile without writing assets")
	f.Int("jobs", 0, "max parallel compiles (0=auto)")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.String("catalog", "", "node definitions file (YAML/JSON; default builtin)")
	f.StringSlice("references", nil, "extra reference assembly manifests (TOML)")
	f.String("primitive-namespace", "", "namespace prefix of primitive node names")
	f.Bool("write-sync-slot", false, "store the SerializeField flag in the sync slot")
	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := applyCompileFlags(cmd, s); err != nil {
		return err
	}

	files, err := expandSources(args)
	if err != nil {
		return err
	}
	opts, err := s.driverOptions()
	if err != nil {
		return err
	}

	req := &buildpipeline.CompileRequest{Files: files, Options: opts}
	if req.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	if !dryRun {
		format, err := asset.ParseFormat(s.cfg.Output.Format)
		if err != nil {
			return err
		}
		req.Output = asset.FileSink{Format: format, Suffix: s.cfg.Output.Suffix}
	}

	tui, err := useProgressUI(cmd, s.tracer.Enabled())
	if err != nil {
		return err
	}

	var res buildpipeline.CompileResult
	if tui {
		res, err = ui.RunCompile(cmd.Context(), "compiling", cmd.OutOrStdout(), req)
	} else {
		res, err = buildpipeline.Compile(cmd.Context(), req)
	}
	if err != nil && !errors.Is(err, buildpipeline.ErrFilesFailed) {
		return err
	}

	report(cmd.OutOrStdout(), cmd.ErrOrStderr(), s, res)
	if res.Failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", res.Failed, len(res.Files))
	}
	return nil
}

// applyCompileFlags overrides config values with explicitly set flags.
func applyCompileFlags(cmd *cobra.Command, s *settings) error {
	f := cmd.Flags()
	var err error
	if f.Changed("format") {
		if s.cfg.Output.Format, err = f.GetString("format"); err != nil {
			return err
		}
	}
	if f.Changed("suffix") {
		if s.cfg.Output.Suffix, err = f.GetString("suffix"); err != nil {
			return err
		}
	}
	if err := applyCatalogFlag(cmd, s); err != nil {
		return err
	}
	if f.Changed("references") {
		extra, err := f.GetStringSlice("references")
		if err != nil {
			return err
		}
		for _, p := range extra {
			abs, err := filepath.Abs(p)
			if err != nil {
				return err
			}
			s.cfg.References.Paths = append(s.cfg.References.Paths, abs)
		}
	}
	if f.Changed("primitive-namespace") {
		if s.cfg.Compiler.PrimitiveNamespace, err = f.GetString("primitive-namespace"); err != nil {
			return err
		}
	}
	if f.Changed("write-sync-slot") {
		if s.cfg.Compiler.WriteSyncSlot, err = f.GetBool("write-sync-slot"); err != nil {
			return err
		}
	}
	return s.cfg.Validate()
}

// applyCatalogFlag takes --catalog relative to the working directory, not
// the config root.
func applyCatalogFlag(cmd *cobra.Command, s *settings) error {
	f := cmd.Flags()
	if !f.Changed("catalog") {
		return nil
	}
	path, err := f.GetString("catalog")
	if err != nil {
		return err
	}
	s.cfg.Catalog.Path, err = filepath.Abs(path)
	return err
}

// driverOptions wires references, catalog and tracer from the settings.
func (s *settings) driverOptions() (driver.Options, error) {
	assemblies, err := s.cfg.Assemblies()
	if err != nil {
		return driver.Options{}, err
	}
	cat, err := s.cfg.BuildCatalog("")
	if err != nil {
		return driver.Options{}, err
	}
	return driver.Options{
		Frontend: driver.Frontend{
			References:     assemblies,
			Tracer:         s.tracer,
			MaxDiagnostics: s.cfg.Compiler.MaxDiagnostics,
		},
		Catalog:       cat,
		Resolver:      s.cfg.Resolver(),
		WriteSyncSlot: s.cfg.Compiler.WriteSyncSlot,
		Timings:       s.timings,
	}, nil
}

// expandSources replaces directories with the *.cs files below them.
func expandSources(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}
		if !st.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := driver.ListSources(arg)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("%s: no %s files found", arg, driver.SourceExt)
		}
		files = append(files, found...)
	}
	return files, nil
}

// report prints per-file diagnostics and results.
func report(out, errOut io.Writer, s *settings, res buildpipeline.CompileResult) {
	prettyOpts := diagfmt.PrettyOpts{Color: s.color, Context: 1, ShowNotes: true}
	for _, fr := range res.Files {
		unit := unitOf(fr)
		// с --verbose диагностики уже ушли через трассировку
		if unit != nil && unit.Diagnostics.Len() > 0 && !s.tracer.Enabled() {
			if fr.Err != nil || !s.quiet {
				diagfmt.Pretty(errOut, filterShown(unit.Diagnostics, fr.Err != nil), unit.FileSet, prettyOpts)
			}
		}
		switch {
		case fr.Err != nil && !isDiagnosticError(fr.Err):
			fmt.Fprintf(errOut, "error: %v\n", fr.Err)
		case fr.Err != nil:
			// already rendered above
		case !s.quiet:
			stats := fr.Result.Stats
			line := fmt.Sprintf("%s: %d node(s), %d field(s) skipped", fr.Path, stats.Emitted, stats.Skipped)
			if fr.Asset != "" {
				line += " -> " + fr.Asset
			}
			fmt.Fprintln(out, line)
		}
		if s.timings && fr.Result != nil && fr.Result.Timing != nil {
			fmt.Fprint(out, fr.Result.Timing.Summary(fr.Path))
		}
	}
	if s.timings {
		printStageTimings(out, res.Timings)
	}
}

func unitOf(fr buildpipeline.FileResult) *driver.SourceUnit {
	if fr.Result == nil {
		return nil
	}
	return fr.Result.Unit
}

func isDiagnosticError(err error) bool {
	var (
		perr *driver.ParseError
		berr *driver.BindError
	)
	return errors.As(err, &perr) || errors.As(err, &berr)
}

// filterShown drops info-level diagnostics unless the file failed, so a
// clean compile is not drowned in "unnecessary using" notes.
func filterShown(bag *diag.Bag, failed bool) *diag.Bag {
	if failed {
		return bag
	}
	out := diag.NewBag(bag.Cap())
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevWarning {
			out.Add(d)
		}
	}
	return out
}

func printStageTimings(out io.Writer, t buildpipeline.Timings) {
	var sb strings.Builder
	sb.WriteString("stages:\n")
	for _, stage := range buildpipeline.Stages {
		if !t.Has(stage) {
			continue
		}
		fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", stage, float64(t.Duration(stage).Microseconds())/1000)
	}
	fmt.Fprint(out, sb.String())
}
