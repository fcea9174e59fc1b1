package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/koortimativa/rgi-engine/internal/render"
	"github.com/koortimativa/rgi-engine/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render [pdf]",
	Short: "Rasterize a matrícula PDF into page images",
	Long: `Render converts each page of the PDF into a JPEG image at the
configured DPI, writing page_NNN.jpg files into the pages directory.
These are the same images the extract stage sends to the model API.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().Int("dpi", 0, "rasterization resolution, 120-300 (default 240)")
	renderCmd.Flags().String("pages-dir", "", "output directory for page images (default documents/pages)")

	rootCmd.AddCommand(renderCmd)
}

func renderConfig(cmd *cobra.Command) types.RenderConfig {
	dpi, _ := cmd.Flags().GetInt("dpi")
	if dpi == 0 {
		dpi = viper.GetInt("render.dpi")
	}
	pagesDir, _ := cmd.Flags().GetString("pages-dir")
	if pagesDir == "" {
		pagesDir = viper.GetString("render.pages_dir")
	}
	if pagesDir == "" {
		pagesDir = "documents/pages"
	}

	return types.RenderConfig{DPI: dpi, PagesDir: pagesDir}.Normalized()
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := renderConfig(cmd)

	pages, err := render.Pages(args[0], cfg, os.Stdout)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return nil
	}

	paths, err := render.WritePages(pages, cfg.PagesDir)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d page(s) to %s\n", len(paths), cfg.PagesDir)
	return nil
}
