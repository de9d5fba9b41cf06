package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bizplan-backend/internal/analyses"
	"bizplan-backend/internal/assessment"
)

func writeWorkbook(t *testing.T, path string, rows ...string) {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt", "c.docx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	files, err := Discover(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.PDF"), filepath.Join(dir, "b.pdf")}, files)

	files, err = Discover(dir, []string{".docx"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "c.docx")}, files)
}

func TestRunWritesOutputs(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "reports")
	writeWorkbook(t, filepath.Join(in, "farm.xlsx"),
		"Business Name: Green Valley Farms",
		"Organic crops grown by experienced farmers for the regional community.")
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.xlsx"), []byte("not a workbook"), 0o644))

	svc := &analyses.Service{Repo: analyses.NewMemoryRepo()}
	results, err := Run(context.Background(), svc, Options{
		InputDir:    in,
		OutputDir:   out,
		Concurrency: 2,
		Extensions:  []string{".xlsx"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	broken := results[0]
	var procErr ErrProcess
	require.True(t, errors.As(broken.Err, &procErr))
	assert.Equal(t, "analyze", procErr.Stage)
	assert.Equal(t, "broken.xlsx", procErr.File)

	farm := results[1]
	require.NoError(t, farm.Err)
	assert.Equal(t, assessment.IndustryAgriculture, farm.Analysis.Result.Industry)
	assert.Len(t, farm.Outputs, 3)
	assert.Equal(t, 64, len(farm.Meta.SHA256))

	text, err := os.ReadFile(filepath.Join(out, "farm_ocr.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(text), "Green Valley Farms")

	raw, err := os.ReadFile(filepath.Join(out, "farm_analysis.json"))
	require.NoError(t, err)
	var decoded analyses.Analysis
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, farm.Analysis.ID, decoded.ID)
	assert.Equal(t, "Green Valley Farms", decoded.Result.BusinessName)

	_, err = os.Stat(filepath.Join(out, "farm_analysis.xlsx"))
	assert.NoError(t, err)
}

type countingAnalyzer struct {
	calls atomic.Int32
}

func (c *countingAnalyzer) AnalyzeUpload(ctx context.Context, fileName, mimeType string, data []byte, enrich bool) (analyses.Analysis, error) {
	c.calls.Add(1)
	return analyses.Analysis{}, errors.New("unavailable")
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	in := t.TempDir()
	for _, name := range []string{"a.pdf", "b.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(in, name), []byte("%PDF-1.4"), 0o644))
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := &countingAnalyzer{}
	results, err := Run(ctx, svc, Options{InputDir: in, OutputDir: t.TempDir(), Concurrency: 1})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Error(t, r.Err)
	}
}

func TestRunRequiresAnalyzer(t *testing.T) {
	_, err := Run(context.Background(), nil, Options{InputDir: t.TempDir()})
	assert.Error(t, err)
}

func TestComputeMeta(t *testing.T) {
	assert.Equal(t, FileMeta{}, ComputeMeta(nil))
	meta := ComputeMeta([]byte("abc"))
	assert.Equal(t, 3, meta.Size)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", meta.SHA256)
}

func TestMimeForExt(t *testing.T) {
	assert.Equal(t, "application/pdf", mimeForExt("plan.PDF"))
	assert.Equal(t, "", mimeForExt("plan.txt"))
}
