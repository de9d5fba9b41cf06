package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bizplan-backend/internal/assessment"
)

// Format is an export format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatXLSX     Format = "xlsx"
	FormatPDF      Format = "pdf"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported formats.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat accepts md, markdown, html, xlsx and pdf.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "xlsx":
		return FormatXLSX, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, raw)
	}
}

// ContentType returns the HTTP content type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Input is everything a report renders.
type Input struct {
	ID           string
	Filename     string
	ProcessedAt  time.Time
	Enhanced     bool
	ReviewStatus string
	ReviewNotes  string
	Result       assessment.AnalysisResult
}

// Title returns the report heading.
func (in Input) Title() string {
	return "Business Plan Analysis: " + in.Result.BusinessName
}

// Renderer produces every export format. PDF is nil when no browser is available.
type Renderer struct {
	PDF *PDFRenderer
}

// ErrPDFUnavailable is returned when PDF export is requested without a renderer.
var ErrPDFUnavailable = errors.New("pdf export unavailable")

// Render returns the report body for format f.
func (r Renderer) Render(ctx context.Context, f Format, in Input) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return []byte(Markdown(in)), nil
	case FormatHTML:
		doc, err := HTML(in)
		if err != nil {
			return nil, err
		}
		return []byte(doc), nil
	case FormatXLSX:
		return XLSX(in)
	case FormatPDF:
		if r.PDF == nil {
			return nil, ErrPDFUnavailable
		}
		doc, err := HTML(in)
		if err != nil {
			return nil, err
		}
		return r.PDF.Render(ctx, doc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
}
