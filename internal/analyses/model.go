package analyses

import (
	"time"

	"bizplan-backend/internal/assessment"
	"bizplan-backend/internal/report"
)

const (
	SourceText   = "text"
	SourceUpload = "upload"
)

// Review statuses a mentor can assign to a stored analysis.
const (
	ReviewPending          = "pending"
	ReviewReviewed         = "reviewed"
	ReviewApproved         = "approved"
	ReviewNeedsImprovement = "needs_improvement"
)

// ExtractedTextPreview is how much extracted text a response carries.
const ExtractedTextPreview = 1000

// Metadata describes how an analysis was produced.
type Metadata struct {
	PagesProcessed   int       `json:"pagesProcessed"`
	TextLength       int       `json:"textLength"`
	AnnotationsCount int       `json:"annotationsCount"`
	Enhanced         bool      `json:"enhanced"`
	ProcessedAt      time.Time `json:"processedAt"`
}

// Analysis is one persisted business plan submission and its result.
type Analysis struct {
	ID               string                    `json:"id"`
	Source           string                    `json:"source"`
	Filename         string                    `json:"filename"`
	FileKey          string                    `json:"-"`
	Metadata         Metadata                  `json:"metadata"`
	Result           assessment.AnalysisResult `json:"analysis"`
	EnrichmentReason string                    `json:"-"`
	ExtractedText    string                    `json:"-"`
	ReviewStatus     string                    `json:"reviewStatus"`
	ReviewNotes      string                    `json:"reviewNotes"`
	CreatedAt        time.Time                 `json:"createdAt"`
	UpdatedAt        time.Time                 `json:"updatedAt"`
}

// Summary is the list view of an analysis.
type Summary struct {
	ID           string                  `json:"id"`
	Filename     string                  `json:"filename"`
	BusinessName string                  `json:"businessName"`
	Industry     assessment.Industry     `json:"industry"`
	OverallScore int                     `json:"overallScore"`
	TrafficLight assessment.TrafficLight `json:"trafficLightScore"`
	Enhanced     bool                    `json:"enhanced"`
	ReviewStatus string                  `json:"reviewStatus"`
	CreatedAt    time.Time               `json:"createdAt"`
}

// Summary returns the list view of a.
func (a Analysis) Summary() Summary {
	return Summary{
		ID:           a.ID,
		Filename:     a.Filename,
		BusinessName: a.Result.BusinessName,
		Industry:     a.Result.Industry,
		OverallScore: a.Result.AIScoring.OverallScore,
		TrafficLight: a.Result.TrafficLightScore,
		Enhanced:     a.Metadata.Enhanced,
		ReviewStatus: a.ReviewStatus,
		CreatedAt:    a.CreatedAt,
	}
}

// ReportInput adapts a to the report renderers.
func (a Analysis) ReportInput() report.Input {
	return report.Input{
		ID:           a.ID,
		Filename:     a.Filename,
		ProcessedAt:  a.Metadata.ProcessedAt,
		Enhanced:     a.Metadata.Enhanced,
		ReviewStatus: a.ReviewStatus,
		ReviewNotes:  a.ReviewNotes,
		Result:       a.Result,
	}
}

// ValidReviewStatus reports whether status is one of the review statuses.
func ValidReviewStatus(status string) bool {
	switch status {
	case ReviewPending, ReviewReviewed, ReviewApproved, ReviewNeedsImprovement:
		return true
	}
	return false
}
