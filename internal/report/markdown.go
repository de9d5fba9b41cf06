package report

import (
	"fmt"
	"strings"
	"time"

	"bizplan-backend/internal/assessment"
)

var canvasTitles = map[string]string{
	"keyPartners":           "Key Partners",
	"keyActivities":         "Key Activities",
	"keyResources":          "Key Resources",
	"valueProposition":      "Value Proposition",
	"customerRelationships": "Customer Relationships",
	"channels":              "Channels",
	"customerSegments":      "Customer Segments",
	"costStructure":         "Cost Structure",
	"revenueStreams":        "Revenue Streams",
}

// Markdown renders the analysis as a GitHub-flavored Markdown document.
func Markdown(in Input) string {
	r := in.Result
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", in.Title())
	if in.Filename != "" {
		fmt.Fprintf(&b, "- **Source:** %s\n", in.Filename)
	}
	fmt.Fprintf(&b, "- **Industry:** %s\n", r.Industry)
	fmt.Fprintf(&b, "- **Verdict:** %s (%s, %d/100)\n", r.TrafficLightScore, r.AIScoring.ScoreLevel, r.AIScoring.OverallScore)
	fmt.Fprintf(&b, "- **AI enhanced:** %t\n", in.Enhanced)
	if !in.ProcessedAt.IsZero() {
		fmt.Fprintf(&b, "- **Processed:** %s\n", in.ProcessedAt.UTC().Format(time.RFC3339))
	}
	if in.ReviewStatus != "" {
		fmt.Fprintf(&b, "- **Review status:** %s\n", in.ReviewStatus)
	}
	b.WriteString("\n")

	b.WriteString("## Business Model Canvas\n\n")
	b.WriteString("| Section | Description | Details |\n|---|---|---|\n")
	canvas := r.BusinessCanvas
	for i, s := range canvas.Sections() {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", canvasTitles[assessment.CanvasKeys[i]], cell(s.Description), cell(s.Details))
	}
	b.WriteString("\n")

	b.WriteString("## SWOT Analysis\n\n")
	writeList(&b, "Strengths", r.BusinessAnalysis.Strengths)
	writeList(&b, "Weaknesses", r.BusinessAnalysis.Weaknesses)
	writeList(&b, "Opportunities", r.BusinessAnalysis.Opportunities)
	writeList(&b, "Threats", r.BusinessAnalysis.Threats)

	b.WriteString("## Scoring\n\n")
	b.WriteString("| Rubric | Score | Feedback |\n|---|---|---|\n")
	rubrics := r.AIScoring.Rubrics
	for _, row := range []struct {
		name string
		r    assessment.Rubric
	}{
		{"Completeness", rubrics.Completeness},
		{"Clarity", rubrics.Clarity},
		{"Feasibility", rubrics.Feasibility},
		{"Innovation", rubrics.Innovation},
	} {
		fmt.Fprintf(&b, "| %s | %d/%d | %s |\n", row.name, row.r.Score, row.r.MaxScore, cell(row.r.Feedback))
	}
	fmt.Fprintf(&b, "\n**Overall:** %d/100. %s\n\n", r.AIScoring.OverallScore, r.AIScoring.DetailedFeedback)
	writeList(&b, "Weaknesses", r.AIScoring.Weaknesses)
	writeList(&b, "Improvements", r.AIScoring.Improvements)

	b.WriteString("## Recommendations\n\n")
	for i, s := range r.FeedbackSuggestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	b.WriteString("\n## Local Impact\n\n")
	b.WriteString(r.LocalImpactMapping)
	b.WriteString("\n")

	if strings.TrimSpace(in.ReviewNotes) != "" {
		b.WriteString("\n## Reviewer Notes\n\n")
		b.WriteString(in.ReviewNotes)
		b.WriteString("\n")
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

// cell escapes a value for a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
