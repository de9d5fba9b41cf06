package report

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bizplan-backend/internal/assessment"
)

func sampleInput(t *testing.T) Input {
	t.Helper()
	result, err := assessment.Analyze("Business Name: Fresh Bites\nA restaurant serving local families. We compete with a competitor | chain.")
	require.NoError(t, err)
	return Input{
		ID:           "a1",
		Filename:     "plan.pdf",
		ProcessedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ReviewStatus: "pending",
		ReviewNotes:  "Looks promising.",
		Result:       result,
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatMarkdown, "MD": FormatMarkdown, "markdown": FormatMarkdown, "html": FormatHTML, "xlsx": FormatXLSX, " pdf ": FormatPDF}
	for raw, want := range cases {
		got, err := ParseFormat(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseFormat("docx")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Equal(t, "text/html; charset=utf-8", FormatHTML.ContentType())
	assert.Contains(t, FormatXLSX.ContentType(), "spreadsheetml")
	assert.Contains(t, FormatMarkdown.ContentType(), "text/markdown")
}

func TestMarkdown(t *testing.T) {
	in := sampleInput(t)
	md := Markdown(in)

	assert.True(t, strings.HasPrefix(md, "# Business Plan Analysis: Fresh Bites\n"))
	assert.Contains(t, md, "- **Industry:** food")
	assert.Contains(t, md, "- **Processed:** 2026-03-01T12:00:00Z")
	assert.Contains(t, md, "| Value Proposition | Unique value delivered to customers | Fresh Bites offers high-quality food experiences")
	assert.Contains(t, md, "### Threats\n\n")
	assert.Contains(t, md, "1. Ensure compliance with food safety and health regulations")
	assert.Contains(t, md, "## Reviewer Notes\n\nLooks promising.")
	for _, key := range assessment.CanvasKeys {
		assert.Contains(t, md, "| "+canvasTitles[key]+" |")
	}
}

func TestCellEscapesPipesAndNewlines(t *testing.T) {
	assert.Equal(t, `a \| b c`, cell("a | b\nc"))
}

func TestHTML(t *testing.T) {
	in := sampleInput(t)
	doc, err := HTML(in)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "<!doctype html>"))
	assert.Contains(t, doc, "<title>Business Plan Analysis: Fresh Bites</title>")
	assert.Contains(t, doc, "<h1>Business Plan Analysis: Fresh Bites</h1>")
	assert.Contains(t, doc, "<table>")
	assert.Contains(t, doc, "verdict-"+strings.ToLower(string(in.Result.TrafficLightScore)))
}

func TestHTMLEscapesBusinessName(t *testing.T) {
	in := sampleInput(t)
	in.Result.BusinessName = "<script>alert(1)</script>"
	doc, err := HTML(in)
	require.NoError(t, err)
	assert.NotContains(t, doc, "<script>")
}

func TestXLSX(t *testing.T) {
	in := sampleInput(t)
	data, err := XLSX(in)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Canvas", "SWOT", "Scoring", "Recommendations"}, f.GetSheetList())

	business, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Fresh Bites", business)

	rows, err := f.GetRows("Canvas")
	require.NoError(t, err)
	assert.Len(t, rows, 10)
	assert.Equal(t, "Key Partners", rows[1][0])

	score, err := f.GetCellValue("Scoring", "B2")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(in.Result.AIScoring.Rubrics.Completeness.Score), score)
}

func TestRenderDispatch(t *testing.T) {
	in := sampleInput(t)
	r := Renderer{}

	md, err := r.Render(context.Background(), FormatMarkdown, in)
	require.NoError(t, err)
	assert.Equal(t, Markdown(in), string(md))

	_, err = r.Render(context.Background(), FormatPDF, in)
	assert.True(t, errors.Is(err, ErrPDFUnavailable))

	_, err = r.Render(context.Background(), Format("odt"), in)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestPDFRender(t *testing.T) {
	path := DetectChromePath()
	if path == "" {
		t.Skip("no chromium installed")
	}
	doc, err := HTML(sampleInput(t))
	require.NoError(t, err)
	out, err := NewPDFRenderer(path).Render(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
