package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"udonc/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the node definition catalog",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List node definitions",
		Args:  cobra.NoArgs,
		RunE:  runCatalogList,
	}
	list.Flags().String("format", "text", "output format (text|yaml|json)")
	list.Flags().String("prefix", "", "only definitions whose full name starts with prefix")
	list.Flags().String("catalog", "", "node definitions file (YAML/JSON; default builtin)")

	lookup := &cobra.Command{
		Use:   "lookup <fullName>",
		Short: "Show one node definition",
		Args:  cobra.ExactArgs(1),
		RunE:  runCatalogLookup,
	}
	lookup.Flags().String("catalog", "", "node definitions file (YAML/JSON; default builtin)")

	cmd.AddCommand(list, lookup)
	return cmd
}

func openCatalog(cmd *cobra.Command) (*catalog.Catalog, func(), error) {
	s, cleanup, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := applyCatalogFlag(cmd, s); err != nil {
		cleanup()
		return nil, nil, err
	}
	cat, err := s.cfg.BuildCatalog("")
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if err := cat.Err(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("catalog: %w", err)
	}
	return cat, cleanup, nil
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	cat, cleanup, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	prefix, err := cmd.Flags().GetString("prefix")
	if err != nil {
		return err
	}
	entries := make([]catalog.Entry, 0, cat.Len())
	for _, e := range cat.Entries() {
		if strings.HasPrefix(e.FullName, prefix) {
			entries = append(entries, e)
		}
	}
	return writeEntries(cmd.OutOrStdout(), entries, format)
}

func runCatalogLookup(cmd *cobra.Command, args []string) error {
	cat, cleanup, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	entry, ok := cat.Lookup(args[0])
	if !ok {
		return fmt.Errorf("no node definition named %q", args[0])
	}
	return writeEntries(cmd.OutOrStdout(), []catalog.Entry{entry}, "yaml")
}

func writeEntries(w io.Writer, entries []catalog.Entry, format string) error {
	switch format {
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.FullName, e.Name, e.Type)
		}
		return tw.Flush()
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	default:
		return fmt.Errorf("unsupported format %q (must be text, yaml or json)", format)
	}
}
