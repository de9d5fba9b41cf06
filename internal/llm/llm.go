package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"unicode/utf8"
)

// Rewriter is the enrichment collaborator: it receives the current analysis
// and returns free-form text expected to contain one improved JSON object.
type Rewriter interface {
	Rewrite(ctx context.Context, input RewriteInput) (string, error)
}

// RewriteInput captures the inputs needed for an enrichment request.
type RewriteInput struct {
	Analysis json.RawMessage
	Excerpt  string
}

// ExcerptLimit caps the number of source characters forwarded to a provider.
const ExcerptLimit = 2000

// Sampling settings shared by every provider.
const (
	Temperature = 0.3
	MaxTokens   = 3000
)

// Excerpt returns at most ExcerptLimit characters of text.
func Excerpt(text string) string {
	if utf8.RuneCountInString(text) <= ExcerptLimit {
		return text
	}
	runes := []rune(text)
	return string(runes[:ExcerptLimit])
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Rewrite returns ErrNotImplemented.
func (PlaceholderClient) Rewrite(ctx context.Context, input RewriteInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotImplemented
}

type promptHashKey struct{}

// PromptHashSink receives the prompt hash of a request. Safe for concurrent use.
type PromptHashSink struct {
	mu   sync.Mutex
	hash string
}

// Value returns the recorded hash, or "" when no request was built.
func (s *PromptHashSink) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hash
}

func (s *PromptHashSink) set(hash string) {
	s.mu.Lock()
	s.hash = hash
	s.mu.Unlock()
}

// WithPromptHashSink returns a context that receives the prompt hash of the next request.
func WithPromptHashSink(ctx context.Context, sink *PromptHashSink) context.Context {
	return context.WithValue(ctx, promptHashKey{}, sink)
}

// PromptHashSinkFromContext returns the prompt hash sink, if any.
func PromptHashSinkFromContext(ctx context.Context) (*PromptHashSink, bool) {
	sink, ok := ctx.Value(promptHashKey{}).(*PromptHashSink)
	return sink, ok && sink != nil
}
