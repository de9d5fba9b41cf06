package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// sqliteTime keeps fixed-width timestamps so TEXT ordering matches time ordering.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteRepo implements Repo on a single-node SQLite database.
type SQLiteRepo struct {
	DB *sqlx.DB
}

type sqliteRow struct {
	ID               string `db:"id"`
	Source           string `db:"source"`
	Filename         string `db:"filename"`
	FileKey          string `db:"file_key"`
	BusinessName     string `db:"business_name"`
	Industry         string `db:"industry"`
	OverallScore     int    `db:"overall_score"`
	TrafficLight     string `db:"traffic_light"`
	Enhanced         bool   `db:"enhanced"`
	EnrichmentReason string `db:"enrichment_reason"`
	PagesProcessed   int    `db:"pages_processed"`
	TextLength       int    `db:"text_length"`
	AnnotationsCount int    `db:"annotations_count"`
	Result           string `db:"result"`
	ExtractedText    string `db:"extracted_text"`
	ReviewStatus     string `db:"review_status"`
	ReviewNotes      string `db:"review_notes"`
	CreatedAt        string `db:"created_at"`
	UpdatedAt        string `db:"updated_at"`
}

func toSQLiteRow(a Analysis) (sqliteRow, error) {
	payload, err := json.Marshal(a.Result)
	if err != nil {
		return sqliteRow{}, fmt.Errorf("marshal result: %w", err)
	}
	return sqliteRow{
		ID:               a.ID,
		Source:           a.Source,
		Filename:         a.Filename,
		FileKey:          a.FileKey,
		BusinessName:     a.Result.BusinessName,
		Industry:         string(a.Result.Industry),
		OverallScore:     a.Result.AIScoring.OverallScore,
		TrafficLight:     string(a.Result.TrafficLightScore),
		Enhanced:         a.Metadata.Enhanced,
		EnrichmentReason: a.EnrichmentReason,
		PagesProcessed:   a.Metadata.PagesProcessed,
		TextLength:       a.Metadata.TextLength,
		AnnotationsCount: a.Metadata.AnnotationsCount,
		Result:           string(payload),
		ExtractedText:    a.ExtractedText,
		ReviewStatus:     a.ReviewStatus,
		ReviewNotes:      a.ReviewNotes,
		CreatedAt:        a.CreatedAt.UTC().Format(sqliteTime),
		UpdatedAt:        a.UpdatedAt.UTC().Format(sqliteTime),
	}, nil
}

func (row sqliteRow) analysis() (Analysis, error) {
	a := Analysis{
		ID:               row.ID,
		Source:           row.Source,
		Filename:         row.Filename,
		FileKey:          row.FileKey,
		EnrichmentReason: row.EnrichmentReason,
		ExtractedText:    row.ExtractedText,
		ReviewStatus:     row.ReviewStatus,
		ReviewNotes:      row.ReviewNotes,
		Metadata: Metadata{
			PagesProcessed:   row.PagesProcessed,
			TextLength:       row.TextLength,
			AnnotationsCount: row.AnnotationsCount,
			Enhanced:         row.Enhanced,
		},
	}
	if err := json.Unmarshal([]byte(row.Result), &a.Result); err != nil {
		return Analysis{}, fmt.Errorf("decode result for %s: %w", row.ID, err)
	}
	var err error
	if a.CreatedAt, err = time.Parse(sqliteTime, row.CreatedAt); err != nil {
		return Analysis{}, fmt.Errorf("parse created_at for %s: %w", row.ID, err)
	}
	if a.UpdatedAt, err = time.Parse(sqliteTime, row.UpdatedAt); err != nil {
		return Analysis{}, fmt.Errorf("parse updated_at for %s: %w", row.ID, err)
	}
	a.Metadata.ProcessedAt = a.CreatedAt
	return a, nil
}

// Create inserts a new analysis.
func (r *SQLiteRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
	id, source, filename, file_key, business_name, industry, overall_score, traffic_light,
	enhanced, enrichment_reason, pages_processed, text_length, annotations_count, result,
	extracted_text, review_status, review_notes, created_at, updated_at
)
VALUES (
	:id, :source, :filename, :file_key, :business_name, :industry, :overall_score, :traffic_light,
	:enhanced, :enrichment_reason, :pages_processed, :text_length, :annotations_count, :result,
	:extracted_text, :review_status, :review_notes, :created_at, :updated_at
)`
	row, err := toSQLiteRow(analysis)
	if err != nil {
		return err
	}
	_, err = r.DB.NamedExecContext(ctx, query, row)
	return err
}

// GetByID returns an analysis by ID.
func (r *SQLiteRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	var row sqliteRow
	if err := r.DB.GetContext(ctx, &row, `SELECT * FROM analyses WHERE id = ? LIMIT 1`, analysisID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return row.analysis()
}

// List returns analyses ordered newest-first.
func (r *SQLiteRepo) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	limit, offset = clampPage(limit, offset)
	var rows []sqliteRow
	if err := r.DB.SelectContext(ctx, &rows,
		`SELECT * FROM analyses ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset); err != nil {
		return nil, err
	}
	out := make([]Analysis, 0, len(rows))
	for _, row := range rows {
		a, err := row.analysis()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// UpdateReview sets the review status and mentor notes.
func (r *SQLiteRepo) UpdateReview(ctx context.Context, analysisID, status, notes string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE analyses SET review_status = ?, review_notes = ?, updated_at = ? WHERE id = ?`,
		status, notes, time.Now().UTC().Format(sqliteTime), analysisID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*SQLiteRepo)(nil)
