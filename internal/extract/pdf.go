package extract

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// textLayerConfidence is reported for words read from an embedded text layer.
const textLayerConfidence = 1.0

func extractPDF(ctx context.Context, data []byte) (Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("open pdf: %w", err)
	}

	var doc Document
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return Document{}, fmt.Errorf("pdf page %d: %w", i, err)
		}
		doc.Pages = append(doc.Pages, Page{
			Number:      i,
			Text:        text,
			Annotations: pageWords(page),
		})
	}
	return doc, nil
}

// pageWords groups positioned glyphs into words. A malformed content stream
// yields no annotations rather than failing the page.
func pageWords(page pdf.Page) (words []Annotation) {
	defer func() {
		if recover() != nil {
			words = nil
		}
	}()
	return groupWords(page.Content().Text)
}

func groupWords(glyphs []pdf.Text) []Annotation {
	var words []Annotation
	var cur strings.Builder
	var minX, minY, maxX, maxY float64
	var lastEnd, lastY float64

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		words = append(words, Annotation{
			Text:       cur.String(),
			Confidence: textLayerConfidence,
			BoundingPoly: [4]Point{
				{X: minX, Y: minY},
				{X: maxX, Y: minY},
				{X: maxX, Y: maxY},
				{X: minX, Y: maxY},
			},
		})
		cur.Reset()
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}
		gap := g.FontSize * 0.3
		if cur.Len() > 0 && (math.Abs(g.Y-lastY) > g.FontSize/2 || g.X-lastEnd > gap) {
			flush()
		}
		if cur.Len() == 0 {
			minX, minY = g.X, g.Y
			maxX, maxY = g.X+g.W, g.Y+g.FontSize
		}
		cur.WriteString(g.S)
		minX = math.Min(minX, g.X)
		minY = math.Min(minY, g.Y)
		maxX = math.Max(maxX, g.X+g.W)
		maxY = math.Max(maxY, g.Y+g.FontSize)
		lastEnd = g.X + g.W
		lastY = g.Y
	}
	flush()
	return words
}
