package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"bizplan-backend/internal/assessment"
)

const reportCSS = `body{font-family:-apple-system,"Segoe UI",Helvetica,Arial,sans-serif;color:#1c1917;max-width:960px;margin:0 auto;padding:1.5rem;}` +
	`table{width:100%;border-collapse:collapse;font-size:0.85rem;margin-bottom:1rem;}` +
	`th,td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}` +
	`thead th{background:#f1f5f9;}` +
	`.verdict{display:inline-block;padding:0.25rem 0.75rem;border-radius:999px;font-weight:700;color:#fff;}` +
	`.verdict-green{background:#15803d;}.verdict-yellow{background:#ca8a04;}.verdict-red{background:#b91c1c;}` +
	`html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;}` +
	`@media print{@page{size:auto;margin:12mm;}body{padding:0;max-width:none;}}`

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders the Markdown report into a standalone HTML document.
func HTML(in Input) (string, error) {
	var content strings.Builder
	if err := markdown.Convert([]byte(Markdown(in)), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(in.Title()) + "</title>" +
		"<style>" + reportCSS + "</style></head><body>" +
		verdictBadge(in.Result) +
		"<div class='report-html'>" + content.String() + "</div>" +
		"</body></html>", nil
}

func verdictBadge(r assessment.AnalysisResult) string {
	class := "verdict-" + strings.ToLower(string(r.TrafficLightScore))
	label := fmt.Sprintf("%s · %d/100", r.AIScoring.ScoreLevel, r.AIScoring.OverallScore)
	return "<span class='verdict " + html.EscapeString(class) + "'>" + html.EscapeString(label) + "</span>"
}
