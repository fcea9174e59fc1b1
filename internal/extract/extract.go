// Package extract drives the vision model over rendered pages and merges
// the per-batch partial documents into one structured record.
package extract

import (
	"context"
	"fmt"
	"io"

	"github.com/koortimativa/rgi-engine/internal/render"
	"github.com/koortimativa/rgi-engine/pkg/types"
)

// defaultBatchSize is the number of page images sent per API call. Two
// pages keeps request payloads under the API size limits at standard
// compression.
const defaultBatchSize = 2

// PageImage is a compressed page ready to be attached to an API request.
type PageImage struct {
	Number int
	JPEG   []byte
}

// VisionBackend abstracts the multimodal model API so tests can supply a
// mock. Each call handles one batch of pages and returns the partial
// document the model produced for them.
type VisionBackend interface {
	Extract(ctx context.Context, pages []PageImage) (*types.Matricula, error)
}

// Document extracts a structured record from rendered pages. Pages are
// grouped into fixed-size batches in page order; each batch is sent at the
// standard compression profile and, if the call fails, re-encoded once at
// the light profile before the whole extraction is abandoned. Partial
// results are merged batch by batch and normalized at the end.
//
// With no pages the backend is never called and the empty default
// document is returned.
func Document(ctx context.Context, backend VisionBackend, pages []render.Page, cfg types.ExtractionConfig, w io.Writer) (*types.Matricula, error) {
	merged := types.NewMatricula()
	if len(pages) == 0 {
		return merged, nil
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	processed := 0
	for start := 0; start < len(pages); start += batchSize {
		end := start + batchSize
		if end > len(pages) {
			end = len(pages)
		}
		batch := pages[start:end]
		first, last := batch[0].Number, batch[len(batch)-1].Number

		doc, err := extractBatch(ctx, backend, batch, w)
		if err != nil {
			return nil, fmt.Errorf("extracting pages %d-%d: %w", first, last, err)
		}

		Merge(merged, doc)
		processed += len(batch)
		fmt.Fprintf(w, "extracted pages %d-%d\n", first, last)
	}

	merged.Metadata.PaginasProcessadas = processed
	Normalize(merged)
	return merged, nil
}

// extractBatch sends one batch at the standard profile, falling back to a
// single retry at the light profile on any backend error. Oversized
// payloads are the common cause; the lighter encoding is the only
// mitigation the API offers us.
func extractBatch(ctx context.Context, backend VisionBackend, batch []render.Page, w io.Writer) (*types.Matricula, error) {
	imgs, err := encodeBatch(batch, types.StandardProfile)
	if err != nil {
		return nil, err
	}

	doc, err := backend.Extract(ctx, imgs)
	if err == nil {
		return doc, nil
	}

	fmt.Fprintf(w, "batch failed (%v); retrying with reduced image quality\n", err)

	light, encErr := encodeBatch(batch, types.LightProfile)
	if encErr != nil {
		return nil, encErr
	}
	return backend.Extract(ctx, light)
}

// encodeBatch compresses a batch of rendered pages with the given profile.
func encodeBatch(batch []render.Page, profile types.CompressionProfile) ([]PageImage, error) {
	imgs := make([]PageImage, 0, len(batch))
	for _, p := range batch {
		data, err := render.EncodeJPEG(p.Image, profile)
		if err != nil {
			return nil, fmt.Errorf("compressing page %d: %w", p.Number, err)
		}
		imgs = append(imgs, PageImage{Number: p.Number, JPEG: data})
	}
	return imgs, nil
}
