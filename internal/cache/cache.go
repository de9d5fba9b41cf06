package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"bizplan-backend/internal/assessment"
	"bizplan-backend/internal/shared/util"
)

// Entry is a cached analysis outcome.
type Entry struct {
	Result   assessment.AnalysisResult `json:"result"`
	Enhanced bool                      `json:"enhanced"`
}

// ResultCache stores analysis outcomes by Key. Get returns nil, nil on a miss.
type ResultCache interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry Entry) error
}

// Key identifies an analysis by its normalized text and whether enrichment was requested.
func Key(normalizedText string, enrich bool) string {
	return "analysis:" + util.HashParts(normalizedText, strconv.FormatBool(enrich))
}

type memoryItem struct {
	entry   Entry
	expires time.Time
}

// Memory is an in-process ResultCache with a fixed TTL.
type Memory struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemory returns a memory cache. A non-positive ttl never expires entries.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, items: make(map[string]memoryItem), now: time.Now}
}

func (m *Memory) Get(ctx context.Context, key string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	if !item.expires.IsZero() && m.now().After(item.expires) {
		delete(m.items, key)
		return nil, nil
	}
	entry := item.entry
	return &entry, nil
}

func (m *Memory) Set(ctx context.Context, key string, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	item := memoryItem{entry: entry}
	if m.ttl > 0 {
		item.expires = m.now().Add(m.ttl)
	}
	m.items[key] = item
	return nil
}

var _ ResultCache = (*Memory)(nil)
