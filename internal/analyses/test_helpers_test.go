package analyses

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"bizplan-backend/internal/assessment"
	"bizplan-backend/internal/cache"
	"bizplan-backend/internal/llm"
)

const techPlan = "Our innovative tech startup platform helps local businesses digitally transform."

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

// echoRewriter returns the analysis it receives, which the gate accepts as a complete rewrite.
type echoRewriter struct {
	calls atomic.Int32
}

func (r *echoRewriter) Rewrite(ctx context.Context, input llm.RewriteInput) (string, error) {
	r.calls.Add(1)
	return "Here you go:\n" + string(input.Analysis), nil
}

type failingRewriter struct{}

func (failingRewriter) Rewrite(ctx context.Context, input llm.RewriteInput) (string, error) {
	return "", errors.New("upstream unavailable")
}

func newTestService(rewriter llm.Rewriter) *Service {
	return &Service{
		Repo:  NewMemoryRepo(),
		Cache: cache.NewMemory(time.Hour),
		Gate:  assessment.Gate{Rewriter: rewriter, Timeout: time.Second},
		Now:   func() time.Time { return fixedNow },
	}
}
