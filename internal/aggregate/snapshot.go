package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/config"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/geo"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/models"
)

const wordCloudLimit = 2000

// Store is the read-only slice of the post repository the aggregator
// needs.
type Store interface {
	PostsSince(ctx context.Context, since time.Time) ([]models.Post, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountTotal(ctx context.Context) (int64, error)
}

// Aggregator runs one full aggregation pass over the recent window.
type Aggregator struct {
	store   Store
	matcher *geo.Matcher
	cfg     config.DashboardConfig
	now     func() time.Time
}

func NewAggregator(store Store, matcher *geo.Matcher, cfg config.DashboardConfig) *Aggregator {
	return &Aggregator{
		store:   store,
		matcher: matcher,
		cfg:     cfg,
		now:     time.Now,
	}
}

// BuildSnapshot performs the windowed read and every aggregate transform
// over it.
func (a *Aggregator) BuildSnapshot(ctx context.Context) (*models.Snapshot, error) {
	now := a.now()
	windowStart := now.Add(-a.cfg.Window)

	posts, err := a.store.PostsSince(ctx, windowStart)
	if err != nil {
		return nil, fmt.Errorf("windowed read failed: %w", err)
	}

	total, err := a.store.CountTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("total count failed: %w", err)
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := a.store.CountSince(ctx, midnight)
	if err != nil {
		return nil, fmt.Errorf("daily count failed: %w", err)
	}

	snapshot := &models.Snapshot{
		GeneratedAt: now,
		WindowStart: windowStart,
		Series:      TimeSeries(posts, a.cfg.BucketSize),
		Rolling:     Rolling(posts, now, a.cfg.RollingWindow),
		Change:      Change(posts, now, a.cfg.RollingWindow),
		Hashtags:    TopHashtags(posts, a.cfg.DropTopHashtag),
		Words:       WordFrequencies(posts, wordCloudLimit),
		TotalPosts:  total,
		PostsToday:  today,
	}
	if a.matcher != nil {
		snapshot.Regions = GeoCounts(posts, a.matcher)
	}

	return snapshot, nil
}
