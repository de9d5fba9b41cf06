package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusWithoutChecks(t *testing.T) {
	report := NewService().Status(context.Background())
	assert.True(t, report.OK)
	assert.Nil(t, report.Checks)
}

func TestStatusReportsFailingDependency(t *testing.T) {
	svc := NewService()
	svc.Register("database", func(ctx context.Context) error { return nil })
	svc.Register("cache", func(ctx context.Context) error { return errors.New("connection refused") })
	svc.Register("ignored", nil)

	report := svc.Status(context.Background())
	assert.False(t, report.OK)
	assert.Equal(t, map[string]string{"database": "ok", "cache": "connection refused"}, report.Checks)
}

func TestChecksReceiveDeadline(t *testing.T) {
	svc := NewService()
	svc.Register("db", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("no deadline")
		}
		return nil
	})
	assert.True(t, svc.Status(context.Background()).OK)
}
