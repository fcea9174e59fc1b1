// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns a scanned PDF into ordered page images sized for
// the model API. Validation and page counting go through pdfcpu; the
// actual rasterization is done in-process with MuPDF via go-fitz.
package render

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/koortimativa/rgi-engine/pkg/types"
)

// Page is a single rasterized PDF page. Number is 1-based and pages are
// always returned in document order.
type Page struct {
	Number int
	Image  image.Image
}

// Pages rasterizes every page of the PDF at path. A zero-page document
// returns an empty slice and no error; callers must not invoke the model
// API in that case.
func Pages(path string, cfg types.RenderConfig, w io.Writer) ([]Page, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("validating PDF %s: %w", path, err)
	}
	if count == 0 {
		fmt.Fprintf(w, "no pages in %s\n", filepath.Base(path))
		return []Page{}, nil
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer doc.Close()

	return rasterize(doc, cfg, w)
}

// PagesFromBytes rasterizes a PDF held in memory, for the upload path.
func PagesFromBytes(data []byte, cfg types.RenderConfig, w io.Writer) ([]Page, error) {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("validating PDF: %w", err)
	}
	if count == 0 {
		fmt.Fprintln(w, "no pages in document")
		return []Page{}, nil
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	return rasterize(doc, cfg, w)
}

func rasterize(doc *fitz.Document, cfg types.RenderConfig, w io.Writer) ([]Page, error) {
	cfg = cfg.Normalized()
	total := doc.NumPage()

	pages := make([]Page, 0, total)
	for i := 0; i < total; i++ {
		img, err := doc.ImageDPI(i, float64(cfg.DPI))
		if err != nil {
			return nil, fmt.Errorf("rasterizing page %d: %w", i+1, err)
		}
		pages = append(pages, Page{Number: i + 1, Image: img})
		fmt.Fprintf(w, "rendered page %d/%d (%d dpi)\n", i+1, total, cfg.DPI)
	}
	return pages, nil
}

// WritePages encodes pages with the standard compression profile and
// writes them to dir as page_NNN.jpg, returning the written paths.
func WritePages(pages []Page, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating pages directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(pages))
	for _, p := range pages {
		data, err := EncodeJPEG(p.Image, types.StandardProfile)
		if err != nil {
			return nil, fmt.Errorf("encoding page %d: %w", p.Number, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("page_%03d.jpg", p.Number))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("writing page %d: %w", p.Number, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
