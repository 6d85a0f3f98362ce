package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"udonc/internal/refs"
)

func newRefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs",
		Short: "List reference assemblies offered to a compile",
		Args:  cobra.NoArgs,
		RunE:  runRefs,
	}
	cmd.Flags().Bool("types", false, "list the exported types of every assembly")
	cmd.Flags().Bool("all", false, "also show assemblies filtered out as dynamic or location-less")
	cmd.Flags().StringSlice("references", nil, "extra reference assembly manifests (TOML)")
	return cmd
}

func runRefs(cmd *cobra.Command, _ []string) error {
	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := applyCompileFlags(cmd, s); err != nil {
		return err
	}

	showTypes, err := cmd.Flags().GetBool("types")
	if err != nil {
		return err
	}
	showAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}

	all, err := s.cfg.Assemblies()
	if err != nil {
		return err
	}
	usable := make(map[string]bool)
	for _, a := range refs.Usable(all) {
		usable[a.Name] = true
	}

	out := cmd.OutOrStdout()
	skipped := color.New(color.Faint)
	for _, a := range all {
		ok := usable[a.Name]
		if !ok && !showAll {
			continue
		}
		line := fmt.Sprintf("%s (%d types) %s", a.Name, len(a.Types), a.Location)
		if !ok {
			fmt.Fprintln(out, skipped.Sprint(line+" [skipped]"))
			continue
		}
		fmt.Fprintln(out, line)
		if showTypes {
			if err := writeTypes(out, a.Types); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTypes(w io.Writer, types []refs.TypeDef) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	for _, t := range types {
		name := t.FullName()
		if t.Static {
			name += " (static)"
		}
		fmt.Fprintf(tw, "  %s\t%s\n", t.Kind, name)
	}
	return tw.Flush()
}
