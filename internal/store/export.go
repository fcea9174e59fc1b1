// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// ExportYAML writes every archived run, including full results, to
// archiveDir/export.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.archiveDir, "export.yaml")
	data, err := yaml.Marshal(runs)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every archived run, including full results, to
// archiveDir/export.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	runs, err := s.exportRuns(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.archiveDir, "export.json")
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM runs ORDER BY created_at LIMIT ?`, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying runs for export: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	runs := make([]Run, 0, len(ids))
	for _, id := range ids {
		r, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, nil
}
