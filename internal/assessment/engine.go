package assessment

import (
	"fmt"
	"strings"
)

// scoreCanvas is the scoring stage used by AnalyzeDocument.
var scoreCanvas = Score

// Analyze runs the deterministic pipeline over raw text. It returns
// ErrNoContent for empty input and an *AnalysisFailure when a stage fails or
// the assembled result breaks an invariant. No partial result is returned.
func Analyze(text string) (AnalysisResult, error) {
	doc := NewDocument(text)
	if doc.Empty() {
		return AnalysisResult{}, ErrNoContent
	}
	return AnalyzeDocument(doc)
}

// AnalyzeDocument runs the pipeline over an already normalized document.
func AnalyzeDocument(doc Document) (result AnalysisResult, err error) {
	if doc.Empty() {
		return AnalysisResult{}, ErrNoContent
	}
	stage := "classify"
	defer func() {
		if r := recover(); r != nil {
			result = AnalysisResult{}
			err = &AnalysisFailure{Stage: stage, Message: "unexpected panic", Err: fmt.Errorf("%v", r)}
		}
	}()

	industry := ClassifyIndustry(doc)

	stage = "canvas"
	name := ExtractBusinessName(doc)
	canvas := BuildCanvas(industry, name)

	stage = "swot"
	swot := SynthesizeSWOT(doc, industry)

	stage = "scoring"
	scoring := scoreCanvas(canvas, doc)

	stage = "recommendations"
	result = AnalysisResult{
		Industry:            industry,
		BusinessName:        name,
		BusinessCanvas:      canvas,
		BusinessAnalysis:    swot,
		AIScoring:           scoring,
		TrafficLightScore:   TrafficLightFor(scoring.OverallScore),
		FeedbackSuggestions: RecommendationsFor(industry),
		LocalImpactMapping:  LocalImpact(doc, name),
	}

	stage = "validate"
	if ferr := Validate(result); ferr != nil {
		return AnalysisResult{}, ferr
	}
	return result, nil
}

// Validate checks the invariants every returned result must satisfy.
func Validate(result AnalysisResult) error {
	for i, section := range result.BusinessCanvas.Sections() {
		if strings.TrimSpace(section.Details) == "" {
			return failure("validate", "canvas section %s has no details", CanvasKeys[i])
		}
	}

	swot := result.BusinessAnalysis
	lists := []struct {
		name  string
		items []string
	}{
		{"strengths", swot.Strengths},
		{"weaknesses", swot.Weaknesses},
		{"opportunities", swot.Opportunities},
		{"threats", swot.Threats},
	}
	for _, l := range lists {
		if len(l.items) == 0 {
			return failure("validate", "swot list %s is empty", l.name)
		}
	}

	sum := 0
	for _, r := range result.AIScoring.Rubrics.ordered() {
		if r.rubric.Score < 0 || r.rubric.Score > MaxRubricScore {
			return failure("validate", "rubric %s score %d out of range", r.name, r.rubric.Score)
		}
		if r.rubric.MaxScore != MaxRubricScore {
			return failure("validate", "rubric %s max score %d", r.name, r.rubric.MaxScore)
		}
		sum += r.rubric.Score
	}
	if sum != result.AIScoring.OverallScore {
		return failure("validate", "overall score %d does not match rubric sum %d", result.AIScoring.OverallScore, sum)
	}
	if want := TrafficLightFor(sum); result.TrafficLightScore != want {
		return failure("validate", "traffic light %s does not match score %d", result.TrafficLightScore, sum)
	}
	if len(result.FeedbackSuggestions) == 0 {
		return failure("validate", "no feedback suggestions")
	}
	return nil
}
