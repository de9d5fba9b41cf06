package assessment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	blankLineRunPattern = regexp.MustCompile(`\n\s*\n\s*\n+`)
	inlineSpacePattern  = regexp.MustCompile(`[ \t]+`)
)

// Normalize collapses blank-line runs and inline whitespace and trims the result.
func Normalize(raw string) string {
	text := blankLineRunPattern.ReplaceAllString(raw, "\n\n")
	text = inlineSpacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// NewDocument normalizes raw text into a Document.
func NewDocument(raw string) Document {
	text := Normalize(raw)
	return Document{
		Text:   text,
		Length: utf8.RuneCountInString(text),
		lower:  strings.ToLower(text),
	}
}

// Empty reports whether the document has no content.
func (d Document) Empty() bool {
	return strings.TrimSpace(d.Text) == ""
}

func (d Document) lowered() string {
	if d.lower == "" && d.Text != "" {
		return strings.ToLower(d.Text)
	}
	return d.lower
}
