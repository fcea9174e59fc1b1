// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store archives extraction runs in a local SQLite database and
// indexes their supporting excerpts for full-text search.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/koortimativa/rgi-engine/pkg/types"
)

const dbFile = "runs.db"

// Store manages the extraction run archive.
type Store struct {
	db         *sql.DB
	archiveDir string
	maxResults int
}

// Run is one archived extraction. Result is populated by Get and omitted
// from listings.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	Document  string    `json:"document" yaml:"document"`
	Model     string    `json:"model" yaml:"model"`
	Pages     int       `json:"pages" yaml:"pages"`
	Matricula string    `json:"matricula,omitempty" yaml:"matricula,omitempty"`
	Cidade    string    `json:"cidade,omitempty" yaml:"cidade,omitempty"`
	UF        string    `json:"uf,omitempty" yaml:"uf,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	Result *types.Matricula `json:"result,omitempty" yaml:"result,omitempty"`
}

// ExcerptHit is a full-text match over archived supporting excerpts,
// with provenance back to the run and page it came from.
type ExcerptHit struct {
	RunID    string `json:"run_id" yaml:"run_id"`
	Document string `json:"document" yaml:"document"`
	Pagina   int    `json:"pagina" yaml:"pagina"`
	Trecho   string `json:"trecho" yaml:"trecho"`
}

// New opens or creates the archive database at archiveDir/runs.db and
// creates the schema if it does not exist.
func New(cfg types.StoreConfig) (*Store, error) {
	archiveDir := cfg.ArchiveDir
	if archiveDir == "" {
		archiveDir = filepath.Join("output", "archive")
	}
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(archiveDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, archiveDir: archiveDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			model TEXT,
			pages INTEGER,
			matricula TEXT,
			cidade TEXT,
			uf TEXT,
			created_at TEXT NOT NULL,
			result TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS excerpts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			pagina INTEGER,
			trecho TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_excerpts_run_id ON excerpts(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='excerpts_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE excerpts_fts USING fts5(trecho, content=excerpts, content_rowid=rowid)`,
			`CREATE TRIGGER excerpts_ai AFTER INSERT ON excerpts BEGIN
				INSERT INTO excerpts_fts(rowid, trecho) VALUES (new.rowid, new.trecho);
			END`,
			`CREATE TRIGGER excerpts_ad AFTER DELETE ON excerpts BEGIN
				INSERT INTO excerpts_fts(excerpts_fts, rowid, trecho) VALUES('delete', old.rowid, old.trecho);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Save archives one extraction result and indexes its excerpts. It
// returns the stored run with a fresh id.
func (s *Store) Save(ctx context.Context, document, model string, doc *types.Matricula) (*Run, error) {
	resultJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}

	run := &Run{
		ID:        uuid.NewString(),
		Document:  document,
		Model:     model,
		Pages:     doc.Metadata.PaginasProcessadas,
		Matricula: doc.Metadata.Matricula,
		Cidade:    doc.Metadata.Cidade,
		UF:        doc.Metadata.UF,
		CreatedAt: time.Now().UTC(),
		Result:    doc,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, document, model, pages, matricula, cidade, uf, created_at, result)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Document, run.Model, run.Pages,
		run.Matricula, run.Cidade, run.UF,
		run.CreatedAt.Format(time.RFC3339Nano), string(resultJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO excerpts (run_id, pagina, trecho) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing excerpt insert: %w", err)
	}
	defer stmt.Close()

	for _, ref := range doc.Referencias {
		if ref.Trecho == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, run.ID, ref.Pagina, ref.Trecho); err != nil {
			return nil, fmt.Errorf("inserting excerpt: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// List returns archived runs, most recent first, without results.
func (s *Store) List(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, model, pages, matricula, cidade, uf, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Get returns one archived run including its full result.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var (
		r          Run
		model      sql.NullString
		matricula  sql.NullString
		cidade     sql.NullString
		uf         sql.NullString
		createdAt  string
		resultJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, document, model, pages, matricula, cidade, uf, created_at, result
		 FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.Document, &model, &r.Pages, &matricula, &cidade, &uf, &createdAt, &resultJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run %s not found", id)
		}
		return nil, fmt.Errorf("looking up run: %w", err)
	}

	r.Model = model.String
	r.Matricula = matricula.String
	r.Cidade = cidade.String
	r.UF = uf.String
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	var doc types.Matricula
	if err := json.Unmarshal([]byte(resultJSON), &doc); err != nil {
		return nil, fmt.Errorf("parsing stored result: %w", err)
	}
	r.Result = &doc
	return &r, nil
}

// Search runs an FTS5 full-text query over archived excerpts.
func (s *Store) Search(ctx context.Context, query string) ([]ExcerptHit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.run_id, r.document, e.pagina, e.trecho
		 FROM excerpts_fts
		 JOIN excerpts e ON e.rowid = excerpts_fts.rowid
		 JOIN runs r ON r.id = e.run_id
		 WHERE excerpts_fts MATCH ?
		 ORDER BY excerpts_fts.rank
		 LIMIT ?`, query, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching excerpts: %w", err)
	}
	defer rows.Close()

	var hits []ExcerptHit
	for rows.Next() {
		var (
			h      ExcerptHit
			pagina sql.NullInt64
		)
		if err := rows.Scan(&h.RunID, &h.Document, &pagina, &h.Trecho); err != nil {
			return nil, fmt.Errorf("scanning excerpt: %w", err)
		}
		h.Pagina = int(pagina.Int64)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func scanRun(rows *sql.Rows) (*Run, error) {
	var (
		r         Run
		model     sql.NullString
		matricula sql.NullString
		cidade    sql.NullString
		uf        sql.NullString
		createdAt string
	)
	if err := rows.Scan(&r.ID, &r.Document, &model, &r.Pages, &matricula, &cidade, &uf, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	r.Model = model.String
	r.Matricula = matricula.String
	r.Cidade = cidade.String
	r.UF = uf.String
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &r, nil
}
