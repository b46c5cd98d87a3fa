package cache

import (
	"context"
	"time"

	"lapakpos/backend/internal/report"
)

// ReportCache shields the aggregator from recomputing rollups on every
// dashboard poll. A miss is (nil, false, nil); errors are reserved for
// backend failures.
type ReportCache interface {
	Get(ctx context.Context, key string) (*report.Summary, bool, error)
	Set(ctx context.Context, key string, value *report.Summary, ttl time.Duration) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) (*report.Summary, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ *report.Summary, _ time.Duration) error {
	return nil
}
