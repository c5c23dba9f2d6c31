package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/config"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/metrics"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/models"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/normalize"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/sentiment"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/stream"
)

// ErrRetriesExhausted means the backoff policy's attempt cap was hit
// while trying to re-establish the stream.
var ErrRetriesExhausted = errors.New("stream reconnect attempts exhausted")

type State int

const (
	StateConnected State = iota
	StateReconnecting
)

// Store is the slice of the post repository the loop needs.
type Store interface {
	InsertPost(ctx context.Context, post models.Post) error
}

// Deduper remembers recently ingested ids across reconnects. nil disables
// the check; the table's primary key still stops duplicates.
type Deduper interface {
	IsSeen(ctx context.Context, id string) bool
	MarkSeen(ctx context.Context, id string) error
}

// Loop is the ingestion state machine: CONNECTED while events flow,
// RECONNECTING after any connection error, no terminal state. It runs
// until the context is cancelled or the attempt cap is hit.
type Loop struct {
	source  stream.Source
	store   Store
	dedupe  Deduper
	cfg     config.IngestConfig
	policy  BackoffPolicy
	metrics *metrics.Metrics
	state   State
}

func NewLoop(source stream.Source, store Store, dedupe Deduper, cfg config.IngestConfig, m *metrics.Metrics) *Loop {
	return &Loop{
		source: source,
		store:  store,
		dedupe: dedupe,
		cfg:    cfg,
		policy: BackoffPolicy{
			Initial:     cfg.BackoffInitial,
			Max:         cfg.BackoffMax,
			MaxAttempts: cfg.MaxAttempts,
		},
		metrics: m,
	}
}

func (l *Loop) State() State { return l.state }

func (l *Loop) Run(ctx context.Context) error {
	attempt := 0

	for {
		if l.state == StateReconnecting {
			attempt++
			if l.policy.Exhausted(attempt) {
				slog.Error("[Ingest] Giving up on stream",
					slog.Int("attempts", attempt-1))
				return ErrRetriesExhausted
			}
			if l.metrics != nil {
				l.metrics.Reconnects.Inc()
			}
			if delay := l.policy.Delay(attempt); delay > 0 {
				slog.Warn("[Ingest] Reconnecting to stream",
					slog.Int("attempt", attempt),
					slog.Duration("backoff", delay))
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(delay):
				}
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := l.source.Connect(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if stream.IsRateLimit(err) {
				slog.Warn("[Ingest] Stream rate limited, backing off",
					slog.String("error", err.Error()))
			} else {
				slog.Warn("[Ingest] Stream connect failed",
					slog.String("error", err.Error()))
			}
			l.state = StateReconnecting
			continue
		}

		l.state = StateConnected
		attempt = 0

		l.consume(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.source.Close()
		l.state = StateReconnecting
	}
}

// consume drains events until the stream breaks.
func (l *Loop) consume(ctx context.Context) {
	for {
		event, err := l.source.Next(ctx)
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("[Ingest] Stream dropped",
					slog.String("error", err.Error()))
			}
			return
		}
		l.handleEvent(ctx, event)
	}
}

// handleEvent applies the per-event contract: filter, normalize, score,
// insert. No failure here changes connection state.
func (l *Loop) handleEvent(ctx context.Context, event *models.StreamEvent) {
	if event.IsRetweet || event.Retweeted != nil {
		l.discard("repost")
		return
	}

	if l.cfg.Language != "" && event.Language != "" && event.Language != l.cfg.Language {
		l.discard("language")
		return
	}

	if event.ID == "" || event.CreatedAt.IsZero() {
		slog.Warn("[Ingest] Skipping event with missing fields",
			slog.String("id", event.ID))
		l.discard("malformed")
		return
	}

	text := normalize.StripNonASCII(ptr(event.FullText()))
	if text == nil {
		slog.Warn("[Ingest] Skipping event with empty text",
			slog.String("id", event.ID))
		l.discard("malformed")
		return
	}

	if l.dedupe != nil && l.dedupe.IsSeen(ctx, event.ID) {
		l.discard("duplicate")
		return
	}

	polarity, subjectivity := sentiment.Analyze(*text)

	post := models.Post{
		ID:            event.ID,
		CreatedAt:     event.CreatedAt.In(time.Local),
		Text:          *text,
		Polarity:      polarity,
		Subjectivity:  subjectivity,
		UserCreatedAt: event.User.CreatedAt,
		UserLocation:  normalize.StripNonASCII(ptr(event.User.Location)),
		UserBio:       normalize.StripNonASCII(ptr(event.User.Description)),
		FollowerCount: event.User.FollowersCount,
		RetweetCount:  event.RetweetCount,
		FavoriteCount: event.FavoriteCount,
	}
	if event.Coordinates != nil {
		post.Longitude = ptr(event.Coordinates.Point[0])
		post.Latitude = ptr(event.Coordinates.Point[1])
	}

	if err := l.store.InsertPost(ctx, post); err != nil {
		// single-insert failures are logged and dropped, never retried
		slog.Error("[Ingest] Failed to insert post",
			slog.String("id", post.ID),
			slog.String("error", err.Error()))
		if l.metrics != nil {
			l.metrics.InsertErrors.Inc()
		}
		return
	}

	if l.dedupe != nil {
		if err := l.dedupe.MarkSeen(ctx, event.ID); err != nil {
			slog.Warn("[Ingest] Failed to mark post as seen",
				slog.String("id", event.ID),
				slog.String("error", err.Error()))
		}
	}

	if l.metrics != nil {
		l.metrics.EventsAccepted.Inc()
	}
}

func (l *Loop) discard(reason string) {
	if l.metrics != nil {
		l.metrics.EventsDiscarded.WithLabelValues(reason).Inc()
	}
}

func ptr[T any](v T) *T { return &v }
