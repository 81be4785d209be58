package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/rpanav/roinav/internal/roi"
)

// ErrNotFound reports the first-run state: no settings document has ever been
// saved. Callers fall back to the documented defaults, it is not a failure.
var ErrNotFound = errors.New("settings document not found")

// Store persists the global configuration as a singleton JSON document row.
type Store struct {
	db *sql.DB
}

// NewStore returns a settings store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get loads the stored settings document. Returns ErrNotFound when the
// singleton row does not exist yet.
func (s *Store) Get(ctx context.Context) (Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM settings WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("query settings document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Document{}, fmt.Errorf("decode settings document: %w", err)
	}
	return doc, nil
}

// Update shallow-merges the top-level sections of patch into the stored
// document, recomputes the derived baselines and bumps updated_at. The caller
// is expected to invalidate the config cache right after a successful update.
func (s *Store) Update(ctx context.Context, patch []byte) (Document, error) {
	merged := map[string]json.RawMessage{}

	var current string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM settings WHERE id = 1`).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("query settings document: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal([]byte(current), &merged); err != nil {
			return Document{}, fmt.Errorf("decode stored settings: %w", err)
		}
	}

	var updates map[string]json.RawMessage
	if err := json.Unmarshal(patch, &updates); err != nil {
		return Document{}, fmt.Errorf("decode settings patch: %w", err)
	}
	for key, value := range updates {
		merged[key] = value
	}

	mergedJSON, err := json.Marshal(merged)
	if err != nil {
		return Document{}, fmt.Errorf("encode merged settings: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(mergedJSON, &doc); err != nil {
		return Document{}, fmt.Errorf("decode merged settings: %w", err)
	}

	doc.RecomputeBaselines()
	doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	stored, err := json.Marshal(doc)
	if err != nil {
		return Document{}, fmt.Errorf("encode settings document: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (id, document, updated_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			document = excluded.document,
			updated_at = CURRENT_TIMESTAMP
	`, string(stored))
	if err != nil {
		return Document{}, fmt.Errorf("upsert settings document: %w", err)
	}

	return doc, nil
}

// Fetch implements Provider: it loads and normalizes the stored document.
func (s *Store) Fetch(ctx context.Context) (roi.Config, error) {
	doc, err := s.Get(ctx)
	if err != nil {
		return roi.Config{}, err
	}
	return doc.Normalize(), nil
}
