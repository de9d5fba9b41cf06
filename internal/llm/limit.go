package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limited throttles calls to the wrapped Rewriter.
type Limited struct {
	next    Rewriter
	limiter *rate.Limiter
}

// NewLimited allows rpm requests per minute with the given burst. A
// non-positive rpm disables throttling.
func NewLimited(next Rewriter, rpm, burst int) *Limited {
	limit := rate.Inf
	if rpm > 0 {
		limit = rate.Limit(float64(rpm) / 60.0)
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

// Rewrite waits for the limiter before delegating.
func (l *Limited) Rewrite(ctx context.Context, input RewriteInput) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("limiter wait error: %w", err)
	}
	return l.next.Rewrite(ctx, input)
}

var _ Rewriter = (*Limited)(nil)
