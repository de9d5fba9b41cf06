package main

// Send one business plan through the configured enrichment provider and
// show what the gate did with the response:
//   go run ./cmd/prompttest -plan ./plans/cafe.pdf -provider openai

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"bizplan-backend/internal/assessment"
	"bizplan-backend/internal/bootstrap"
	"bizplan-backend/internal/extract"
	"bizplan-backend/internal/llm"
	"bizplan-backend/internal/shared/config"
)

// recordingRewriter keeps the raw provider response for inspection.
type recordingRewriter struct {
	next llm.Rewriter
	mu   sync.Mutex
	raw  string
}

func (r *recordingRewriter) Rewrite(ctx context.Context, input llm.RewriteInput) (string, error) {
	raw, err := r.next.Rewrite(ctx, input)
	r.mu.Lock()
	r.raw = raw
	r.mu.Unlock()
	return raw, err
}

func (r *recordingRewriter) Raw() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.raw
}

func main() {
	cfg := config.Load()

	planPath := flag.String("plan", "", "Path to business plan file (pdf, docx, xlsx or txt)")
	outPath := flag.String("out", "", "Path to write the final analysis JSON (optional)")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider (openai, anthropic, eino)")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	flag.Parse()

	if strings.TrimSpace(*planPath) == "" {
		exitErr("plan path is required")
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(*provider))
	cfg.LLMModel = *model

	data, err := os.ReadFile(*planPath)
	if err != nil {
		exitErr(fmt.Sprintf("read plan: %v", err))
	}
	ctx := context.Background()
	doc, err := extract.FromBytes(ctx, data, "", filepath.Base(*planPath))
	if err != nil {
		exitErr(fmt.Sprintf("extract plan text: %v", err))
	}
	text := doc.Text()

	original, err := assessment.Analyze(text)
	if err != nil {
		exitErr(fmt.Sprintf("analyze: %v", err))
	}

	rewriter, err := bootstrap.BuildRewriter(ctx, cfg)
	if err != nil {
		exitErr(err.Error())
	}
	if rewriter == nil {
		exitErr("no LLM provider configured")
	}
	recorder := &recordingRewriter{next: rewriter}
	gate := assessment.Gate{Rewriter: recorder, Timeout: cfg.EnrichmentTimeout}

	sink := &llm.PromptHashSink{}
	outcome := gate.Enrich(llm.WithPromptHashSink(ctx, sink), original, text)

	fmt.Fprintf(os.Stderr, "prompt_hash: %s\n", sink.Value())
	fmt.Fprintf(os.Stderr, "deterministic: %s %d\n", original.TrafficLightScore, original.AIScoring.OverallScore)
	if outcome.Enriched {
		fmt.Fprintf(os.Stderr, "enriched: %s %d\n", outcome.Result.TrafficLightScore, outcome.Result.AIScoring.OverallScore)
	} else {
		fmt.Fprintf(os.Stderr, "fallback: %s\n", outcome.Reason)
		fmt.Fprintf(os.Stderr, "--- raw response ---\n%s\n--- end ---\n", recorder.Raw())
	}

	pretty, err := json.MarshalIndent(outcome.Result, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}
	pretty = append(pretty, '\n')

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
