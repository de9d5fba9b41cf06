package batch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"bizplan-backend/internal/analyses"
	"bizplan-backend/internal/extract"
	"bizplan-backend/internal/report"
	"bizplan-backend/internal/shared/telemetry"
)

// Analyzer is the part of the analyses service a batch run needs.
type Analyzer interface {
	AnalyzeUpload(ctx context.Context, fileName, mimeType string, data []byte, enrich bool) (analyses.Analysis, error)
}

// Options controls one batch run.
type Options struct {
	InputDir    string
	OutputDir   string
	Enrich      bool
	Concurrency int
	// Extensions lists the file suffixes to pick up. Empty means ".pdf".
	Extensions []string
	SkipXLSX   bool
}

// FileMeta captures details useful for logging and diagnostics.
type FileMeta struct {
	Size   int
	SHA256 string
}

// ComputeMeta returns the payload length and SHA-256 hash.
func ComputeMeta(data []byte) FileMeta {
	if len(data) == 0 {
		return FileMeta{}
	}
	sum := sha256.Sum256(data)
	return FileMeta{Size: len(data), SHA256: hex.EncodeToString(sum[:])}
}

// ErrProcess indicates a file failed at one stage of the run.
type ErrProcess struct {
	File  string
	Stage string
	Err   error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return e.Stage + " " + e.File
	}
	return e.Stage + " " + e.File + ": " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Result is the outcome for one input file.
type Result struct {
	File     string
	Meta     FileMeta
	Analysis analyses.Analysis
	Outputs  []string
	Err      error
}

// Discover lists the matching files in dir, sorted by name.
func Discover(dir string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = []string{".pdf"}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range extensions {
			if ext == strings.ToLower(want) {
				files = append(files, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run analyzes every matching file in opts.InputDir. Results keep input
// order; per-file failures are reported in Result.Err.
func Run(ctx context.Context, svc Analyzer, opts Options) ([]Result, error) {
	if svc == nil {
		return nil, errors.New("analysis service not configured")
	}
	files, err := Discover(opts.InputDir, opts.Extensions)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	results := make([]Result, len(files))
	sem := make(chan struct{}, max(1, opts.Concurrency))
	var wg sync.WaitGroup

	for i, file := range files {
		select {
		case <-ctx.Done():
			results[i] = Result{File: file, Err: ctx.Err()}
			continue
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = ProcessFile(ctx, svc, file, opts)
		}(i, file)
	}
	wg.Wait()
	return results, nil
}

// ProcessFile analyzes one file and writes its text, JSON and XLSX outputs.
func ProcessFile(ctx context.Context, svc Analyzer, path string, opts Options) Result {
	res := Result{File: path}
	fail := func(stage string, err error) Result {
		res.Err = ErrProcess{File: filepath.Base(path), Stage: stage, Err: err}
		fields := map[string]any{"file": path, "stage": stage, "error": err.Error()}
		if res.Meta.SHA256 != "" {
			fields["sha256"] = res.Meta.SHA256
		}
		telemetry.Error("batch.file.failed", fields)
		return res
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail("read", err)
	}
	res.Meta = ComputeMeta(data)

	name := filepath.Base(path)
	analysis, err := svc.AnalyzeUpload(ctx, name, mimeForExt(name), data, opts.Enrich)
	if err != nil {
		return fail("analyze", err)
	}
	res.Analysis = analysis

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	outputs, err := writeOutputs(opts.OutputDir, stem, analysis, !opts.SkipXLSX)
	res.Outputs = outputs
	if err != nil {
		return fail("write", err)
	}

	telemetry.Info("batch.file.completed", map[string]any{
		"file":          path,
		"analysis_id":   analysis.ID,
		"overall_score": analysis.Result.AIScoring.OverallScore,
		"enhanced":      analysis.Metadata.Enhanced,
	})
	return res
}

func writeOutputs(dir, stem string, analysis analyses.Analysis, withXLSX bool) ([]string, error) {
	var written []string

	textPath := filepath.Join(dir, stem+"_ocr.txt")
	if err := os.WriteFile(textPath, []byte(analysis.ExtractedText), 0o644); err != nil {
		return written, err
	}
	written = append(written, textPath)

	payload, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return written, err
	}
	jsonPath := filepath.Join(dir, stem+"_analysis.json")
	if err := os.WriteFile(jsonPath, payload, 0o644); err != nil {
		return written, err
	}
	written = append(written, jsonPath)

	if !withXLSX {
		return written, nil
	}
	book, err := report.XLSX(analysis.ReportInput())
	if err != nil {
		return written, err
	}
	xlsxPath := filepath.Join(dir, stem+"_analysis.xlsx")
	if err := os.WriteFile(xlsxPath, book, 0o644); err != nil {
		return written, err
	}
	return append(written, xlsxPath), nil
}

func mimeForExt(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return extract.MimePDF
	case ".docx":
		return extract.MimeDOCX
	case ".xlsx":
		return extract.MimeXLSX
	default:
		return ""
	}
}
