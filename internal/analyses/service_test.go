package analyses

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bizplan-backend/internal/assessment"
	"bizplan-backend/internal/extract"
	"bizplan-backend/internal/report"
	"bizplan-backend/internal/shared/storage/object/local"
)

func TestAnalyzeTextPersistsDeterministicResult(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	got, err := svc.AnalyzeText(ctx, "  "+techPlan+"\n\n\n\n", true)
	require.NoError(t, err)

	want, err := assessment.Analyze(techPlan)
	require.NoError(t, err)
	assert.Equal(t, want, got.Result)
	assert.Equal(t, SourceText, got.Source)
	assert.Equal(t, ReviewPending, got.ReviewStatus)
	assert.False(t, got.Metadata.Enhanced)
	assert.Equal(t, 1, got.Metadata.PagesProcessed)
	assert.Equal(t, len([]rune(techPlan)), got.Metadata.TextLength)
	assert.Equal(t, fixedNow, got.Metadata.ProcessedAt)
	assert.Equal(t, techPlan, got.ExtractedText)

	stored, err := svc.Get(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestAnalyzeTextRejectsEmpty(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.AnalyzeText(context.Background(), " \n\t ", true)
	assert.ErrorIs(t, err, ErrEmptyText)

	list, err := svc.List(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAnalyzeTextAppliesEnrichment(t *testing.T) {
	rewriter := &echoRewriter{}
	svc := newTestService(rewriter)

	got, err := svc.AnalyzeText(context.Background(), techPlan, true)
	require.NoError(t, err)
	assert.True(t, got.Metadata.Enhanced)
	assert.Empty(t, got.EnrichmentReason)
	assert.Equal(t, 71, got.Result.AIScoring.OverallScore)
	assert.Equal(t, int32(1), rewriter.calls.Load())

	// Same text and flag is served from cache without another rewrite.
	again, err := svc.AnalyzeText(context.Background(), techPlan, true)
	require.NoError(t, err)
	assert.True(t, again.Metadata.Enhanced)
	assert.NotEqual(t, got.ID, again.ID)
	assert.Equal(t, int32(1), rewriter.calls.Load())
}

func TestAnalyzeTextSkipsEnrichmentWhenNotRequested(t *testing.T) {
	rewriter := &echoRewriter{}
	svc := newTestService(rewriter)

	got, err := svc.AnalyzeText(context.Background(), techPlan, false)
	require.NoError(t, err)
	assert.False(t, got.Metadata.Enhanced)
	assert.Equal(t, int32(0), rewriter.calls.Load())
}

func TestAnalyzeTextFallsBackWhenRewriterFails(t *testing.T) {
	svc := newTestService(failingRewriter{})

	got, err := svc.AnalyzeText(context.Background(), techPlan, true)
	require.NoError(t, err)

	want, err := assessment.Analyze(techPlan)
	require.NoError(t, err)
	assert.Equal(t, want, got.Result)
	assert.False(t, got.Metadata.Enhanced)
	assert.Contains(t, got.EnrichmentReason, "upstream unavailable")
}

func TestAnalyzeUploadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Business Name: Green Valley Farms"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Organic crops grown by experienced farmers for the regional community."))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	svc := newTestService(nil)
	svc.Store = local.New(t.TempDir())

	got, err := svc.AnalyzeUpload(context.Background(), "plan.xlsx", "application/octet-stream", buf.Bytes(), false)
	require.NoError(t, err)
	assert.Equal(t, SourceUpload, got.Source)
	assert.Equal(t, "plan.xlsx", got.Filename)
	assert.NotEmpty(t, got.FileKey)
	assert.Equal(t, assessment.IndustryAgriculture, got.Result.Industry)
	assert.Equal(t, "Green Valley Farms", got.Result.BusinessName)
}

func TestAnalyzeUploadRejectsUnsupportedType(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.AnalyzeUpload(context.Background(), "plan.txt", "text/plain", []byte(techPlan), false)
	assert.ErrorIs(t, err, extract.ErrUnsupportedType)
}

func TestAnalyzeUploadRejectsLargeFiles(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.AnalyzeUpload(context.Background(), "plan.pdf", "application/pdf", make([]byte, MaxUploadBytes+1), false)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestReviewUpdatesStatus(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	created, err := svc.AnalyzeText(ctx, techPlan, false)
	require.NoError(t, err)

	updated, err := svc.Review(ctx, created.ID, " approved ", "  Strong pitch. ")
	require.NoError(t, err)
	assert.Equal(t, ReviewApproved, updated.ReviewStatus)
	assert.Equal(t, "Strong pitch.", updated.ReviewNotes)

	_, err = svc.Review(ctx, created.ID, "rejected", "")
	assert.ErrorIs(t, err, ErrInvalidReviewStatus)

	_, err = svc.Review(ctx, "missing", ReviewReviewed, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	clock := fixedNow
	svc.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	var ids []string
	for _, text := range []string{techPlan, "Fresh Bites is a restaurant and catering kitchen.", "A consulting firm offering support services."} {
		a, err := svc.AnalyzeText(ctx, text, false)
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	list, err := svc.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[1], list[1].ID)

	rest, err := svc.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, ids[0], rest[0].ID)
}

func TestExportFormats(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	created, err := svc.AnalyzeText(ctx, techPlan, false)
	require.NoError(t, err)

	md, err := svc.Export(ctx, created.ID, "md")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md.ContentType, "text/markdown"))
	assert.Equal(t, "analysis-"+created.ID+".md", md.FileName)
	assert.Contains(t, string(md.Body), "YELLOW")

	_, err = svc.Export(ctx, created.ID, "docx")
	assert.ErrorIs(t, err, report.ErrUnknownFormat)

	_, err = svc.Export(ctx, created.ID, "pdf")
	assert.ErrorIs(t, err, report.ErrPDFUnavailable)

	_, err = svc.Export(ctx, "missing", "md")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestExportFileName(t *testing.T) {
	a := Analysis{ID: "id-1", Filename: "dir/Fresh Bites.pdf"}
	assert.Equal(t, "Fresh Bites.html", exportFileName(a, report.FormatHTML))
	assert.Equal(t, "analysis-id-2.xlsx", exportFileName(Analysis{ID: "id-2"}, report.FormatXLSX))
}
