package analyses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"bizplan-backend/internal/assessment"
	"bizplan-backend/internal/cache"
	"bizplan-backend/internal/extract"
	"bizplan-backend/internal/llm"
	"bizplan-backend/internal/report"
	"bizplan-backend/internal/shared/metrics"
	"bizplan-backend/internal/shared/storage/object"
	"bizplan-backend/internal/shared/telemetry"
	"bizplan-backend/internal/shared/util"
)

// MaxUploadBytes caps an uploaded business plan.
const MaxUploadBytes = 20 << 20

// Service contains business logic for analyses.
type Service struct {
	Repo    Repo
	Store   object.ObjectStore
	Cache   cache.ResultCache
	Gate    assessment.Gate
	Reports report.Renderer
	Now     func() time.Time
}

// Export is a rendered report ready to be served.
type Export struct {
	Body        []byte
	ContentType string
	FileName    string
}

// AnalyzeText analyzes pasted business plan text.
func (s *Service) AnalyzeText(ctx context.Context, text string, enrich bool) (Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return Analysis{}, ErrEmptyText
	}
	doc := extract.Document{Pages: []extract.Page{{Number: 1, Text: text}}}
	return s.run(ctx, SourceText, "", "", doc, enrich)
}

// AnalyzeUpload extracts text from an uploaded PDF, DOCX or XLSX file and analyzes it.
func (s *Service) AnalyzeUpload(ctx context.Context, fileName, mimeType string, data []byte, enrich bool) (Analysis, error) {
	if len(data) > MaxUploadBytes {
		return Analysis{}, ErrFileTooLarge
	}
	mimeType = extract.NormalizeMimeType(mimeType, fileName, data)
	switch mimeType {
	case extract.MimePDF, extract.MimeDOCX, extract.MimeXLSX:
	default:
		return Analysis{}, fmt.Errorf("%w: %s", extract.ErrUnsupportedType, mimeType)
	}

	var (
		doc     extract.Document
		fileKey string
		err     error
	)
	if s.Store != nil {
		stored, serr := s.Store.Save(ctx, "uploads", fileName, bytes.NewReader(data))
		if serr != nil {
			return Analysis{}, fmt.Errorf("store upload: %w", serr)
		}
		fileKey = stored.Key
		doc, err = extract.FromStore(ctx, s.Store, fileKey, mimeType, fileName)
	} else {
		doc, err = extract.FromBytes(ctx, data, mimeType, fileName)
	}
	if err != nil {
		return Analysis{}, err
	}
	return s.run(ctx, SourceUpload, fileName, fileKey, doc, enrich)
}

// Get returns an analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	if analysisID == "" {
		return Analysis{}, errors.New("analysisID is required")
	}
	return s.Repo.GetByID(ctx, analysisID)
}

// List returns analyses ordered newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Analysis, error) {
	return s.Repo.List(ctx, limit, offset)
}

// Review records a mentor's review status and notes.
func (s *Service) Review(ctx context.Context, analysisID, status, notes string) (Analysis, error) {
	status = strings.TrimSpace(status)
	if !ValidReviewStatus(status) {
		return Analysis{}, ErrInvalidReviewStatus
	}
	if err := s.Repo.UpdateReview(ctx, analysisID, status, strings.TrimSpace(notes)); err != nil {
		return Analysis{}, err
	}
	telemetry.Info("analysis.review", map[string]any{
		"request_id":    requestIDFromContext(ctx),
		"analysis_id":   analysisID,
		"review_status": status,
	})
	return s.Repo.GetByID(ctx, analysisID)
}

// Export renders a stored analysis in the requested format.
func (s *Service) Export(ctx context.Context, analysisID, rawFormat string) (Export, error) {
	format, err := report.ParseFormat(rawFormat)
	if err != nil {
		return Export{}, err
	}
	analysis, err := s.Get(ctx, analysisID)
	if err != nil {
		return Export{}, err
	}
	body, err := s.Reports.Render(ctx, format, analysis.ReportInput())
	if err != nil {
		return Export{}, err
	}
	return Export{
		Body:        body,
		ContentType: format.ContentType(),
		FileName:    exportFileName(analysis, format),
	}, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) enrichmentEnabled(requested bool) bool {
	return requested && s.Gate.Rewriter != nil
}

// run takes extracted text through analysis, enrichment, caching and persistence.
func (s *Service) run(ctx context.Context, source, fileName, fileKey string, doc extract.Document, enrich bool) (Analysis, error) {
	start := time.Now()
	metrics.IncAnalysisStarted()
	defer func() {
		metrics.ObserveAnalysisDurationMs(metrics.SinceMillis(start))
	}()

	text := doc.Text()
	normalized := assessment.NewDocument(text)
	if normalized.Empty() {
		metrics.IncAnalysisFailed()
		return Analysis{}, assessment.ErrNoContent
	}

	analysisID := uuid.NewString()
	logFields := func(extra map[string]any) map[string]any {
		fields := map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"analysis_id": analysisID,
			"source":      source,
		}
		for k, v := range extra {
			fields[k] = v
		}
		return fields
	}
	telemetry.Info("analysis.status", logFields(map[string]any{
		"status":      "processing",
		"text_length": normalized.Length,
		"pages":       len(doc.Pages),
	}))

	enrich = s.enrichmentEnabled(enrich)
	entry, err := s.analyze(ctx, normalized, text, enrich, logFields)
	if err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.status", logFields(map[string]any{
			"status": "failed",
			"error":  err.Error(),
		}))
		return Analysis{}, err
	}

	now := s.now()
	analysis := Analysis{
		ID:       analysisID,
		Source:   source,
		Filename: fileName,
		FileKey:  fileKey,
		Metadata: Metadata{
			PagesProcessed:   len(doc.Pages),
			TextLength:       normalized.Length,
			AnnotationsCount: doc.AnnotationCount(),
			Enhanced:         entry.Enhanced,
			ProcessedAt:      now,
		},
		Result:           entry.Result,
		EnrichmentReason: entry.reason,
		ExtractedText:    normalized.Text,
		ReviewStatus:     ReviewPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.status", logFields(map[string]any{
			"status": "failed",
			"error":  fmt.Sprintf("persist: %v", err),
		}))
		return Analysis{}, fmt.Errorf("persist analysis: %w", err)
	}

	metrics.IncAnalysisCompleted()
	telemetry.Info("analysis.status", logFields(map[string]any{
		"status":            "completed",
		"status_transition": "processing->completed",
		"overall_score":     analysis.Result.AIScoring.OverallScore,
		"traffic_light":     analysis.Result.TrafficLightScore,
		"enhanced":          analysis.Metadata.Enhanced,
	}))
	return analysis, nil
}

type outcome struct {
	cache.Entry
	reason string
}

func (s *Service) analyze(ctx context.Context, doc assessment.Document, text string, enrich bool, logFields func(map[string]any) map[string]any) (outcome, error) {
	key := cache.Key(doc.Text, enrich)
	if s.Cache != nil {
		hit, err := s.Cache.Get(ctx, key)
		if err != nil {
			telemetry.Error("cache.get", logFields(map[string]any{"error": err.Error()}))
		} else if hit != nil {
			metrics.IncCacheHit()
			return outcome{Entry: *hit}, nil
		}
	}

	result, err := assessment.AnalyzeDocument(doc)
	if err != nil {
		return outcome{}, err
	}
	out := outcome{Entry: cache.Entry{Result: result}}

	if enrich {
		sink := &llm.PromptHashSink{}
		enriched := s.Gate.Enrich(llm.WithPromptHashSink(ctx, sink), result, text)
		out.Result = enriched.Result
		out.Enhanced = enriched.Enriched
		if enriched.Enriched {
			metrics.IncEnrichmentApplied()
			telemetry.Info("enrichment.applied", logFields(map[string]any{
				"prompt_hash":   sink.Value(),
				"overall_score": enriched.Result.AIScoring.OverallScore,
			}))
		} else {
			out.reason = enriched.Reason
			metrics.IncEnrichmentFallback()
			telemetry.Warn("enrichment.fallback", logFields(map[string]any{
				"prompt_hash": sink.Value(),
				"reason":      enriched.Reason,
			}))
		}
	}

	if s.Cache != nil && (!enrich || out.Enhanced) {
		if err := s.Cache.Set(ctx, key, out.Entry); err != nil {
			telemetry.Error("cache.set", logFields(map[string]any{"error": err.Error()}))
		}
	}
	return out, nil
}

func exportFileName(a Analysis, format report.Format) string {
	base := strings.TrimSuffix(filepath.Base(a.Filename), filepath.Ext(a.Filename))
	name, err := util.SanitizeFileName(base)
	if err != nil || a.Filename == "" {
		name = "analysis-" + a.ID
	}
	return name + "." + string(format)
}
