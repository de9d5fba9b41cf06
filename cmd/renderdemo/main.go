package main

// Render a sample analysis in every export format:
//   go run ./cmd/renderdemo -out ./out

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bizplan-backend/internal/assessment"
	"bizplan-backend/internal/bootstrap"
	"bizplan-backend/internal/report"
	"bizplan-backend/internal/shared/config"
)

const samplePlan = `Business Name: Harbor Lane Bakery
Harbor Lane Bakery is a neighborhood bakery and cafe serving fresh bread, pastries and catering
for local offices. Our target customers are commuters, families and small businesses nearby.
We sell through the storefront, an online ordering page and weekly farmers market stalls.
Revenue comes from retail sales, catering contracts and a monthly bread subscription.
Key partners include regional flour mills, a dairy cooperative and a delivery service.
Startup costs cover ovens, rent and staff training; we expect to break even in month 14.`

func main() {
	outDir := flag.String("out", "./out", "output directory for rendered reports")
	flag.Parse()

	result, err := assessment.Analyze(samplePlan)
	if err != nil {
		exitErr(fmt.Sprintf("analyze sample: %v", err))
	}
	in := report.Input{
		ID:           "sample",
		Filename:     "harbor_lane_bakery.pdf",
		ProcessedAt:  time.Now().UTC(),
		ReviewStatus: "pending",
		Result:       result,
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		exitErr(fmt.Sprintf("create output dir: %v", err))
	}

	renderer := bootstrap.BuildReports(config.Load())
	formats := []report.Format{report.FormatMarkdown, report.FormatHTML, report.FormatXLSX, report.FormatPDF}
	for _, f := range formats {
		body, err := renderer.Render(context.Background(), f, in)
		if err != nil {
			if f == report.FormatPDF {
				fmt.Printf("SKIP: %s (%v)\n", f, err)
				continue
			}
			exitErr(fmt.Sprintf("render %s: %v", f, err))
		}
		if f == report.FormatHTML || f == report.FormatMarkdown {
			if pos := tokenIndex(string(body)); pos != -1 {
				exitErr(fmt.Sprintf("unresolved template tokens in %s near: %s", f, snippetAround(string(body), pos, 200)))
			}
		}
		path := filepath.Join(*outDir, "sample_report."+string(f))
		if err := os.WriteFile(path, body, 0o644); err != nil {
			exitErr(fmt.Sprintf("write %s: %v", path, err))
		}
		fmt.Printf("OK: wrote %s\n", path)
	}
}

func tokenIndex(text string) int {
	if idx := strings.Index(text, "{{"); idx != -1 {
		return idx
	}
	if idx := strings.Index(text, "}}"); idx != -1 {
		return idx
	}
	return -1
}

func snippetAround(text string, pos, maxLen int) string {
	if pos < 0 {
		return ""
	}
	start := pos - maxLen/2
	if start < 0 {
		start = 0
	}
	end := start + maxLen
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
