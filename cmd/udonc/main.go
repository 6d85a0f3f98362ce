package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"udonc/internal/version"
)

// newRootCmd собирает дерево команд; тесты создают свежее дерево на каждый прогон.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "udonc",
		Short:         "C# to Udon graph compiler",
		Long:          `udonc compiles a subset of C# into Udon graph program assets`,
		Version:       version.Colored(version.Version),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newCompileCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newRefsCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.BoolP("verbose", "v", false, "echo every diagnostic through the trace channel")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace", "", "trace output file (\"-\" for stderr; default stdout)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both); ring is dumped to stderr on exit")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity in events")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
	pf.String("config", "", "path to udonc.toml (default: search upwards from the working directory)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to collect per file")
	pf.Bool("timings", false, "show timing information")
	pf.Bool("no-cache", false, "do not use the on-disk catalog cache")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	return root
}

// main builds the command tree and executes it; any error exits with status 1.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
