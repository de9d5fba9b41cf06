package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const pgColumns = `id, source, filename, file_key, enhanced, enrichment_reason, pages_processed, text_length,
       annotations_count, result, extracted_text, review_status, review_notes, created_at, updated_at`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
	id, source, filename, file_key, business_name, industry, overall_score, traffic_light,
	enhanced, enrichment_reason, pages_processed, text_length, annotations_count, result,
	extracted_text, review_status, review_notes, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	payload, err := json.Marshal(analysis.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.Source,
		analysis.Filename,
		analysis.FileKey,
		analysis.Result.BusinessName,
		string(analysis.Result.Industry),
		analysis.Result.AIScoring.OverallScore,
		string(analysis.Result.TrafficLightScore),
		analysis.Metadata.Enhanced,
		analysis.EnrichmentReason,
		analysis.Metadata.PagesProcessed,
		analysis.Metadata.TextLength,
		analysis.Metadata.AnnotationsCount,
		payload,
		analysis.ExtractedText,
		analysis.ReviewStatus,
		analysis.ReviewNotes,
		analysis.CreatedAt,
		analysis.UpdatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	query := `
SELECT ` + pgColumns + `
FROM analyses
WHERE id = $1
LIMIT 1`
	a, err := scanPGAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return a, nil
}

// List returns analyses ordered newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	limit, offset = clampPage(limit, offset)
	query := `
SELECT ` + pgColumns + `
FROM analyses
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanPGAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateReview sets the review status and mentor notes.
func (r *PGRepo) UpdateReview(ctx context.Context, analysisID, status, notes string) error {
	const query = `
UPDATE analyses
SET review_status = $1,
    review_notes = $2,
    updated_at = now()
WHERE id = $3::uuid`

	res, err := r.DB.ExecContext(ctx, query, status, notes, analysisID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPGAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var result []byte
	var reason, extracted, notes sql.NullString
	if err := row.Scan(
		&a.ID,
		&a.Source,
		&a.Filename,
		&a.FileKey,
		&a.Metadata.Enhanced,
		&reason,
		&a.Metadata.PagesProcessed,
		&a.Metadata.TextLength,
		&a.Metadata.AnnotationsCount,
		&result,
		&extracted,
		&a.ReviewStatus,
		&notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return Analysis{}, err
	}
	if err := json.Unmarshal(result, &a.Result); err != nil {
		return Analysis{}, fmt.Errorf("decode result for %s: %w", a.ID, err)
	}
	a.EnrichmentReason = reason.String
	a.ExtractedText = extracted.String
	a.ReviewNotes = notes.String
	a.Metadata.ProcessedAt = a.CreatedAt
	return a, nil
}
