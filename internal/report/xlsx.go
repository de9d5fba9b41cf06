package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"bizplan-backend/internal/assessment"
)

// XLSX renders the analysis as a workbook with one sheet per section.
func XLSX(in Input) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	r := in.Result
	summary := [][]any{
		{"Business", r.BusinessName},
		{"Industry", string(r.Industry)},
		{"Overall score", r.AIScoring.OverallScore},
		{"Verdict", string(r.TrafficLightScore)},
		{"Level", r.AIScoring.ScoreLevel},
		{"AI enhanced", in.Enhanced},
		{"Feedback", r.AIScoring.DetailedFeedback},
		{"Local impact", r.LocalImpactMapping},
	}
	if in.Filename != "" {
		summary = append(summary, []any{"Source", in.Filename})
	}
	if in.ReviewStatus != "" {
		summary = append(summary, []any{"Review status", in.ReviewStatus})
	}
	if err := writeSheet(f, "Summary", []any{"Field", "Value"}, summary); err != nil {
		return nil, err
	}

	var canvasRows [][]any
	canvas := r.BusinessCanvas
	for i, s := range canvas.Sections() {
		canvasRows = append(canvasRows, []any{canvasTitles[assessment.CanvasKeys[i]], s.Description, s.Details})
	}
	if err := writeSheet(f, "Canvas", []any{"Section", "Description", "Details"}, canvasRows); err != nil {
		return nil, err
	}

	var swotRows [][]any
	for _, group := range []struct {
		name  string
		items []string
	}{
		{"Strength", r.BusinessAnalysis.Strengths},
		{"Weakness", r.BusinessAnalysis.Weaknesses},
		{"Opportunity", r.BusinessAnalysis.Opportunities},
		{"Threat", r.BusinessAnalysis.Threats},
	} {
		for _, item := range group.items {
			swotRows = append(swotRows, []any{group.name, item})
		}
	}
	if err := writeSheet(f, "SWOT", []any{"Kind", "Statement"}, swotRows); err != nil {
		return nil, err
	}

	rubrics := r.AIScoring.Rubrics
	scoreRows := [][]any{
		{"Completeness", rubrics.Completeness.Score, rubrics.Completeness.MaxScore, rubrics.Completeness.Feedback},
		{"Clarity", rubrics.Clarity.Score, rubrics.Clarity.MaxScore, rubrics.Clarity.Feedback},
		{"Feasibility", rubrics.Feasibility.Score, rubrics.Feasibility.MaxScore, rubrics.Feasibility.Feedback},
		{"Innovation", rubrics.Innovation.Score, rubrics.Innovation.MaxScore, rubrics.Innovation.Feedback},
		{"Improvements", "", "", strings.Join(r.AIScoring.Improvements, "; ")},
	}
	if err := writeSheet(f, "Scoring", []any{"Rubric", "Score", "Max", "Feedback"}, scoreRows); err != nil {
		return nil, err
	}

	var recRows [][]any
	for i, s := range r.FeedbackSuggestions {
		recRows = append(recRows, []any{i + 1, s})
	}
	if err := writeSheet(f, "Recommendations", []any{"#", "Recommendation"}, recRows); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx delete default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex("Summary"); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, header []any, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("xlsx sheet %s: %w", name, err)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("xlsx sheet %s header: %w", name, err)
	}
	for i, row := range rows {
		row := row
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, axis, &row); err != nil {
			return fmt.Errorf("xlsx sheet %s row %d: %w", name, i+2, err)
		}
	}
	return nil
}
