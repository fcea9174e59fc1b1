// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koortimativa/rgi-engine/internal/store"
	"github.com/koortimativa/rgi-engine/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse archived extraction runs",
	Long: `Runs manages the local SQLite archive of extraction results. Use
subcommands to list runs, show one result, search supporting excerpts
with full-text queries, or export the archive.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, most recent first",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print the full result of one archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over archived supporting excerpts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRunsSearch,
}

var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the archive to YAML or JSON",
	RunE:  runRunsExport,
}

func init() {
	runsCmd.PersistentFlags().String("archive-dir", "", "archive directory (default output/archive)")
	runsCmd.PersistentFlags().Int("max-results", 20, "maximum number of results")
	runsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsSearchCmd, runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}

func openArchive(cmd *cobra.Command) (*store.Store, error) {
	archiveDir, _ := cmd.Flags().GetString("archive-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return store.New(types.StoreConfig{ArchiveDir: archiveDir, MaxResults: maxResults})
}

func runRunsList(cmd *cobra.Command, args []string) error {
	st, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-24s  %-14s  %-10s  %5s  %s\n",
		"ID", "Document", "Model", "Matrícula", "Pages", "Created")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, r := range runs {
		doc := r.Document
		if len(doc) > 24 {
			doc = doc[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-24s  %-14s  %-10s  %5d  %s\n",
			r.ID, doc, r.Model, r.Matricula, r.Pages, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	st, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

func runRunsSearch(cmd *cobra.Command, args []string) error {
	st, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	hits, err := st.Search(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	for _, h := range hits {
		trecho := h.Trecho
		if len(trecho) > 70 {
			trecho = trecho[:67] + "..."
		}
		fmt.Fprintf(os.Stdout, "%s  p.%-3d  %-24s  %s\n", h.RunID, h.Pagina, h.Document, trecho)
	}
	fmt.Fprintf(os.Stdout, "\n%d result(s)\n", len(hits))
	return nil
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	st, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	format, _ := cmd.Flags().GetString("format")

	var path string
	switch format {
	case "yaml", "":
		path, err = st.ExportYAML(context.Background())
	case "json":
		path, err = st.ExportJSON(context.Background())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}
