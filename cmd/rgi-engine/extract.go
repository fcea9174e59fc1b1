// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/koortimativa/rgi-engine/internal/extract"
	"github.com/koortimativa/rgi-engine/internal/render"
	"github.com/koortimativa/rgi-engine/internal/store"
	"github.com/koortimativa/rgi-engine/pkg/types"
)

const (
	defaultModel     = "gpt-4o-mini"
	defaultTimeout   = 120 * time.Second
	defaultUserAgent = "rgi-engine/0.1"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf]",
	Short: "Extract a structured record from a matrícula PDF",
	Long: `Extract rasterizes the PDF, sends the pages to the model API in
batches of two, merges the partial results in page order, and writes the
structured record. A batch that fails is retried once with reduced image
quality before the extraction is abandoned.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("model", "", "model identifier (default gpt-4o-mini)")
	extractCmd.Flags().String("api-key", "", "model API key (default: .secrets/openai-api-key or OPENAI_API_KEY)")
	extractCmd.Flags().Int("dpi", 0, "rasterization resolution, 120-300 (default 240)")
	extractCmd.Flags().String("out", "-", "output path, or - for stdout")
	extractCmd.Flags().String("format", "json", "output format: json or yaml")
	extractCmd.Flags().Bool("store", false, "archive the run in the local run database")
	extractCmd.Flags().String("archive-dir", "", "archive directory (default output/archive)")

	rootCmd.AddCommand(extractCmd)
}

func extractionConfig(cmd *cobra.Command) types.ExtractionConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("extraction.model")
	}
	if model == "" {
		model = defaultModel
	}

	key, _ := cmd.Flags().GetString("api-key")

	return types.ExtractionConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		Model:   model,
		APIKey:  apiKey(key),
		BaseURL: viper.GetString("extraction.base_url"),
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := extractionConfig(cmd)
	if cfg.APIKey == "" {
		return fmt.Errorf("no API key configured: set OPENAI_API_KEY, .secrets/openai-api-key, or --api-key")
	}

	pages, err := render.Pages(args[0], renderConfig(cmd), os.Stderr)
	if err != nil {
		return err
	}

	backend := extract.NewOpenAIBackend(cfg)
	doc, err := extract.Document(context.Background(), backend, pages, cfg, os.Stderr)
	if err != nil {
		return err
	}

	if shouldStore, _ := cmd.Flags().GetBool("store"); shouldStore {
		archiveDir, _ := cmd.Flags().GetString("archive-dir")
		st, err := store.New(types.StoreConfig{ArchiveDir: archiveDir})
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.Save(context.Background(), filepath.Base(args[0]), cfg.Model, doc)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "archived run %s\n", run.ID)
	}

	return writeDocument(cmd, doc)
}

func writeDocument(cmd *cobra.Command, doc *types.Matricula) error {
	format, _ := cmd.Flags().GetString("format")

	var (
		data []byte
		err  error
	)
	switch format {
	case "json", "":
		data, err = json.MarshalIndent(doc, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(doc)
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" || out == "-" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	return nil
}
