package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"udonc/internal/diagfmt"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.cs",
		Short: "Parse and bind a C# source file",
		Long: `Parse runs the front end (syntax and binding) over a single file and
reports its diagnostics without producing a graph.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	f := cmd.Flags()
	f.String("diag-format", "pretty", "diagnostics format (pretty|json|line)")
	f.Bool("tree", false, "print the syntax tree")
	f.String("path-mode", "auto", "diagnostic file paths (auto|absolute|relative|basename)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	f := cmd.Flags()
	format, err := f.GetString("diag-format")
	if err != nil {
		return fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	showTree, err := f.GetBool("tree")
	if err != nil {
		return err
	}
	pathModeStr, err := f.GetString("path-mode")
	if err != nil {
		return err
	}
	pathMode, err := diagfmt.ParsePathMode(pathModeStr)
	if err != nil {
		return err
	}

	opts, err := s.driverOptions()
	if err != nil {
		return err
	}
	unit, compileErr := opts.Frontend.CompileFile(args[0])
	if unit == nil {
		return compileErr
	}

	if showTree {
		if err := diagfmt.FormatTree(cmd.OutOrStdout(), unit.Builder, unit.ASTFile, unit.FileSet); err != nil {
			return err
		}
	}

	bag := unit.Diagnostics
	bag.Sort()
	switch format {
	case "pretty":
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, unit.FileSet, diagfmt.PrettyOpts{
			Color:     s.color,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: true,
		})
	case "json":
		if err := diagfmt.JSON(cmd.OutOrStdout(), bag, unit.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     true,
		}); err != nil {
			return err
		}
	case "line":
		if err := diagfmt.Line(cmd.OutOrStdout(), bag, unit.FileSet); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown diagnostics format: %s", format)
	}
	return compileErr
}
