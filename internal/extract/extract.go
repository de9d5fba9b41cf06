package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"bizplan-backend/internal/shared/storage/object"
)

const (
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeXLSX  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimePPTX  = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MimePlain = "text/plain"
)

// ErrUnsupportedType is returned for payloads no extractor understands.
var ErrUnsupportedType = errors.New("unsupported mime type")

// Point is one corner of an annotation bounding box, in page units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Annotation is one recognized word with its confidence and 4-point box.
type Annotation struct {
	Text         string   `json:"text"`
	Confidence   float64  `json:"confidence"`
	BoundingPoly [4]Point `json:"boundingPoly"`
}

// Page is the text of one rendered page.
type Page struct {
	Number      int          `json:"number"`
	Text        string       `json:"text"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Document is the extracted content of one upload.
type Document struct {
	Pages []Page `json:"pages"`
}

// Text joins the page texts with a blank line. Analysis consumes only this.
func (d Document) Text() string {
	parts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		if t := strings.TrimSpace(p.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

// AnnotationCount returns the number of annotations across all pages.
func (d Document) AnnotationCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Annotations)
	}
	return n
}

// FromStore extracts a stored object and persists a derived .extracted.txt copy.
func FromStore(ctx context.Context, store object.ObjectStore, fileKey string, mimeType string, fileName string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return Document{}, fmt.Errorf("extract key=%s mime=%s: %w", fileKey, mimeType, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return Document{}, fmt.Errorf("extract key=%s mime=%s: read: %w", fileKey, mimeType, err)
	}

	doc, err := FromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return Document{}, fmt.Errorf("extract key=%s mime=%s: %w", fileKey, mimeType, err)
	}

	extractedKey := fileKey + ".extracted.txt"
	if _, err := store.SaveWithKey(ctx, extractedKey, "text/plain; charset=utf-8", strings.NewReader(doc.Text())); err != nil {
		return Document{}, fmt.Errorf("extract key=%s mime=%s: save text: %w", fileKey, mimeType, err)
	}
	return doc, nil
}

// FromBytes extracts an in-memory payload.
func FromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	normalized := NormalizeMimeType(mimeType, fileName, data)
	switch normalized {
	case MimePDF:
		return extractPDF(ctx, data)
	case MimeDOCX:
		text, err := extractDOCX(data)
		if err != nil {
			return Document{}, err
		}
		return Document{Pages: []Page{{Number: 1, Text: text}}}, nil
	case MimeXLSX:
		return extractXLSX(data)
	case MimePlain:
		return Document{Pages: []Page{{Number: 1, Text: string(data)}}}, nil
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedType, normalized)
	}
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// NormalizeMimeType resolves a sniffed or declared type, looking inside zip
// containers and falling back to the file extension.
func NormalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	ext := strings.ToLower(filepath.Ext(fileName))
	switch clean {
	case "application/zip", "application/octet-stream", "":
	default:
		return clean
	}

	if mapped := mapOOXMLFromZip(data); mapped != "" {
		return mapped
	}
	switch ext {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".xlsx":
		return MimeXLSX
	case ".pptx":
		return MimePPTX
	case ".txt":
		return MimePlain
	}
	if clean == "" {
		return "application/octet-stream"
	}
	return clean
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		switch strings.ReplaceAll(f.Name, "\\", "/") {
		case "word/document.xml":
			return MimeDOCX
		case "xl/workbook.xml":
			return MimeXLSX
		case "ppt/presentation.xml":
			return MimePPTX
		}
	}
	return ""
}
