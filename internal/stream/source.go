package stream

import (
	"context"
	"errors"
	"fmt"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/config"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/models"
)

// Source supplies discrete post events from an external stream. Connect
// establishes the stream, Next blocks for the following event and Close
// releases the connection. Any error from Connect or Next means the
// stream is gone and the caller has to reconnect.
type Source interface {
	Connect(ctx context.Context) error
	Next(ctx context.Context) (*models.StreamEvent, error)
	Close()
}

// RateLimitError signals that the source told us to back off. It is a
// connection-level error like any other: the ingestion loop reconnects,
// just on a longer fuse.
type RateLimitError struct {
	Status int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("stream source rate limited (status %d)", e.Status)
}

func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// NewSource builds the configured stream backend: "http" for the live
// filtered-stream API, "kafka" for a bridged firehose topic.
func NewSource(cfg config.IngestConfig) (Source, error) {
	switch cfg.StreamSource {
	case "http":
		return newHTTPSource(cfg), nil
	case "kafka":
		return newKafkaSource(cfg)
	default:
		return nil, fmt.Errorf("unknown stream source %q", cfg.StreamSource)
	}
}
