package main

// Analyze every business plan PDF in a folder:
//   go run ./cmd/analyze -in ./plans -out ./reports

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"bizplan-backend/internal/batch"
	"bizplan-backend/internal/bootstrap"
	"bizplan-backend/internal/shared/config"
	"bizplan-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	inDir := flag.String("in", "./input", "folder containing business plan files")
	outDir := flag.String("out", "./output", "folder for extracted text and analysis files")
	enrich := flag.Bool("enrich", cfg.LLMProvider != "none", "request enrichment from the configured LLM provider")
	concurrency := flag.Int("concurrency", 2, "files analyzed in parallel")
	extensions := flag.String("ext", ".pdf", "comma separated file extensions to analyze")
	noXLSX := flag.Bool("no-xlsx", false, "skip the spreadsheet report")
	flag.Parse()

	if err := telemetry.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
	}

	// Without a database the run keeps analyses in memory.
	if cfg.DatabaseURL == "" && cfg.SQLitePath == "" {
		cfg.Env = "local"
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		exitErr(fmt.Sprintf("bootstrap build: %v", err))
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := batch.Run(ctx, app.AnalysesService, batch.Options{
		InputDir:    *inDir,
		OutputDir:   *outDir,
		Enrich:      *enrich,
		Concurrency: *concurrency,
		Extensions:  splitExtensions(*extensions),
		SkipXLSX:    *noXLSX,
	})
	if err != nil {
		exitErr(err.Error())
	}
	if len(results) == 0 {
		fmt.Printf("No matching files in %s\n", *inDir)
		return
	}

	failed := 0
	fmt.Printf("%-32s %-8s %6s %s\n", "FILE", "VERDICT", "SCORE", "ENHANCED")
	for _, r := range results {
		name := filepath.Base(r.File)
		if r.Err != nil {
			failed++
			fmt.Printf("%-32s %-8s %6s %v\n", name, "ERROR", "-", r.Err)
			continue
		}
		res := r.Analysis.Result
		fmt.Printf("%-32s %-8s %6d %t\n", name, res.TrafficLightScore, res.AIScoring.OverallScore, r.Analysis.Metadata.Enhanced)
	}
	fmt.Printf("\n%d analyzed, %d failed, outputs in %s\n", len(results)-failed, failed, *outDir)
	if failed > 0 {
		os.Exit(1)
	}
}

func splitExtensions(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		out = append(out, part)
	}
	return out
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
