// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/koortimativa/rgi-engine/internal/extract"
	"github.com/koortimativa/rgi-engine/internal/server"
	"github.com/koortimativa/rgi-engine/internal/store"
	"github.com/koortimativa/rgi-engine/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction pipeline over HTTP",
	Long: `Serve starts an HTTP API: POST a PDF to /api/v1/extractions to run
the pipeline, browse archived runs under the same path. The model API
credential must be configured before the server starts.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().String("model", "", "model identifier (default gpt-4o-mini)")
	serveCmd.Flags().String("api-key", "", "model API key (default: .secrets/openai-api-key or OPENAI_API_KEY)")
	serveCmd.Flags().Int("dpi", 0, "rasterization resolution, 120-300 (default 240)")
	serveCmd.Flags().String("archive-dir", "", "archive directory (default output/archive)")
	serveCmd.Flags().Bool("no-archive", false, "disable run archiving")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	extraction := extractionConfig(cmd)
	if extraction.APIKey == "" {
		return fmt.Errorf("no API key configured: set OPENAI_API_KEY, .secrets/openai-api-key, or --api-key")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg := types.PipelineConfig{
		Render:     renderConfig(cmd),
		Extraction: extraction,
	}

	var archive *store.Store
	if noArchive, _ := cmd.Flags().GetBool("no-archive"); !noArchive {
		archiveDir, _ := cmd.Flags().GetString("archive-dir")
		archive, err = store.New(types.StoreConfig{ArchiveDir: archiveDir})
		if err != nil {
			return err
		}
		defer archive.Close()
	}

	newBackend := func(c types.ExtractionConfig) extract.VisionBackend {
		return extract.NewOpenAIBackend(c)
	}

	srv := server.New(log, newBackend, archive, cfg)

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = viper.GetString("server.addr")
	}
	addr = server.Addr(addr)

	log.Infow("listening", "addr", addr, "model", extraction.Model)
	return srv.Engine().Run(addr)
}
