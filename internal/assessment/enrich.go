package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"bizplan-backend/internal/llm"
)

// DefaultEnrichmentTimeout bounds one call to the rewriting collaborator.
const DefaultEnrichmentTimeout = 30 * time.Second

var requiredTopLevelKeys = []string{
	"businessCanvas",
	"businessAnalysis",
	"aiScoring",
	"trafficLightScore",
	"feedbackSuggestions",
	"localImpactMapping",
}

var swotKeys = []string{"strengths", "weaknesses", "opportunities", "threats"}

// Gate forwards a deterministic result to a Rewriter and accepts the rewrite
// only when it is structurally complete. Scores are always recomputed locally.
type Gate struct {
	Rewriter llm.Rewriter
	Timeout  time.Duration
}

// Enrichment is the outcome of Gate.Enrich. When Enriched is false, Result is
// the original result and Reason says why the rewrite was discarded.
type Enrichment struct {
	Result   AnalysisResult
	Enriched bool
	Reason   string
}

// Enrich never returns an error: every failure resolves to the original result.
func (g Gate) Enrich(ctx context.Context, original AnalysisResult, text string) Enrichment {
	fallback := func(reason string) Enrichment {
		return Enrichment{Result: original, Reason: reason}
	}
	if g.Rewriter == nil {
		return fallback("no rewriter configured")
	}

	current, err := json.Marshal(original)
	if err != nil {
		return fallback("encode analysis: " + err.Error())
	}
	doc := NewDocument(text)

	raw, err := g.call(ctx, llm.RewriteInput{Analysis: current, Excerpt: llm.Excerpt(doc.Text)})
	if err != nil {
		return fallback(err.Error())
	}

	span, ok := firstJSONObject(raw)
	if !ok {
		return fallback("no JSON object in response")
	}
	candidate, err := decodeCandidate(span, original)
	if err != nil {
		return fallback(err.Error())
	}

	candidate.AIScoring = Score(candidate.BusinessCanvas, doc)
	candidate.TrafficLightScore = TrafficLightFor(candidate.AIScoring.OverallScore)
	if err := Validate(candidate); err != nil {
		return fallback(err.Error())
	}
	return Enrichment{Result: candidate, Enriched: true}
}

type rewriteOutcome struct {
	raw string
	err error
}

// call bounds the rewrite by the gate timeout even if the Rewriter ignores ctx.
func (g Gate) call(ctx context.Context, input llm.RewriteInput) (string, error) {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultEnrichmentTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan rewriteOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- rewriteOutcome{err: fmt.Errorf("rewriter panic: %v", r)}
			}
		}()
		raw, err := g.Rewriter.Rewrite(ctx, input)
		done <- rewriteOutcome{raw: raw, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return "", fmt.Errorf("rewrite: %w", out.err)
		}
		return out.raw, nil
	case <-ctx.Done():
		return "", fmt.Errorf("rewrite: %w", ctx.Err())
	}
}

// firstJSONObject returns the first balanced {...} span in s, skipping braces
// inside JSON strings.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// narrative accepts either a string or a list of strings for canvas details.
type narrative string

func (n *narrative) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = narrative(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.New("details must be a string or a list of strings")
	}
	*n = narrative(strings.Join(items, ", "))
	return nil
}

type candidateSection struct {
	Description string    `json:"description"`
	Details     narrative `json:"details"`
}

// decodeCandidate builds a new result from the rewrite. Industry and business
// name always come from the original; unknown keys are ignored.
func decodeCandidate(span string, original AnalysisResult) (AnalysisResult, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &top); err != nil {
		return AnalysisResult{}, fmt.Errorf("parse response: %w", err)
	}
	for _, key := range requiredTopLevelKeys {
		if _, ok := top[key]; !ok {
			return AnalysisResult{}, fmt.Errorf("response missing %s", key)
		}
	}

	candidate := AnalysisResult{
		Industry:     original.Industry,
		BusinessName: original.BusinessName,
	}

	var canvas map[string]json.RawMessage
	if err := json.Unmarshal(top["businessCanvas"], &canvas); err != nil {
		return AnalysisResult{}, fmt.Errorf("parse businessCanvas: %w", err)
	}
	originalSections := original.BusinessCanvas.Sections()
	for i, section := range candidate.BusinessCanvas.Sections() {
		key := CanvasKeys[i]
		rawSection, ok := canvas[key]
		if !ok {
			return AnalysisResult{}, fmt.Errorf("businessCanvas missing %s", key)
		}
		var cs candidateSection
		if err := json.Unmarshal(rawSection, &cs); err != nil {
			return AnalysisResult{}, fmt.Errorf("parse businessCanvas.%s: %w", key, err)
		}
		details := strings.TrimSpace(string(cs.Details))
		if details == "" {
			return AnalysisResult{}, fmt.Errorf("businessCanvas.%s has no details", key)
		}
		section.Description = strings.TrimSpace(cs.Description)
		if section.Description == "" {
			section.Description = originalSections[i].Description
		}
		section.Details = details
	}

	var swot map[string][]string
	if err := json.Unmarshal(top["businessAnalysis"], &swot); err != nil {
		return AnalysisResult{}, fmt.Errorf("parse businessAnalysis: %w", err)
	}
	for _, key := range swotKeys {
		items := nonBlank(swot[key])
		if len(items) == 0 {
			return AnalysisResult{}, fmt.Errorf("businessAnalysis.%s is empty", key)
		}
		swot[key] = items
	}
	candidate.BusinessAnalysis = SWOT{
		Strengths:     swot["strengths"],
		Weaknesses:    swot["weaknesses"],
		Opportunities: swot["opportunities"],
		Threats:       swot["threats"],
	}

	var suggestions []string
	if err := json.Unmarshal(top["feedbackSuggestions"], &suggestions); err != nil {
		return AnalysisResult{}, fmt.Errorf("parse feedbackSuggestions: %w", err)
	}
	candidate.FeedbackSuggestions = nonBlank(suggestions)
	if len(candidate.FeedbackSuggestions) == 0 {
		return AnalysisResult{}, errors.New("feedbackSuggestions is empty")
	}

	var impact string
	if err := json.Unmarshal(top["localImpactMapping"], &impact); err != nil {
		return AnalysisResult{}, fmt.Errorf("parse localImpactMapping: %w", err)
	}
	candidate.LocalImpactMapping = strings.TrimSpace(impact)
	if candidate.LocalImpactMapping == "" {
		return AnalysisResult{}, errors.New("localImpactMapping is empty")
	}
	return candidate, nil
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
