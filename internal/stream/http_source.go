package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/config"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/models"
)

const userAgent = "rtta-ingest/0.1"

// httpSource reads newline-delimited JSON post events from a streaming
// HTTP endpoint, authenticated with client credentials.
type httpSource struct {
	cfg     config.IngestConfig
	oauth   *clientcredentials.Config
	client  *http.Client
	body    io.ReadCloser
	scanner *bufio.Scanner
}

func newHTTPSource(cfg config.IngestConfig) *httpSource {
	oauthConf := &clientcredentials.Config{
		ClientID:     os.Getenv("STREAM_CLIENT_ID"),
		ClientSecret: os.Getenv("STREAM_CLIENT_SECRET"),
		TokenURL:     os.Getenv("STREAM_TOKEN_URL"),
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return &httpSource{
		cfg:    cfg,
		oauth:  oauthConf,
		client: oauthConf.Client(context.Background()),
	}
}

func (s *httpSource) Connect(ctx context.Context) error {
	endpoint := os.Getenv("STREAM_URL")
	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("[HTTPSource] failed to parse stream URL: %w", err)
	}

	queryParams := parsedURL.Query()
	queryParams.Set("track", strings.Join(s.cfg.TrackWords, ","))
	if s.cfg.Language != "" {
		queryParams.Set("language", s.cfg.Language)
	}
	parsedURL.RawQuery = queryParams.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		resp.Body.Close()
		slog.Warn("[HTTPSource] Token expired - refreshing client")
		s.client = s.oauth.Client(context.Background())
		return fmt.Errorf("[HTTPSource] unauthorized, token refreshed")
	case http.StatusTooManyRequests, 420:
		resp.Body.Close()
		return &RateLimitError{Status: resp.StatusCode}
	case http.StatusOK:
		s.body = resp.Body
		s.scanner = bufio.NewScanner(resp.Body)
		s.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		slog.Info("[HTTPSource] Stream connected",
			slog.String("track", strings.Join(s.cfg.TrackWords, ",")))
		return nil
	default:
		resp.Body.Close()
		return fmt.Errorf("[HTTPSource] unexpected status %d", resp.StatusCode)
	}
}

func (s *httpSource) Next(ctx context.Context) (*models.StreamEvent, error) {
	if s.scanner == nil {
		return nil, fmt.Errorf("[HTTPSource] not connected")
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("[HTTPSource] stream read failed: %w", err)
			}
			return nil, io.EOF
		}

		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			// keep-alive newline
			continue
		}

		var event models.StreamEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			slog.Warn("[HTTPSource] Skipping malformed event",
				slog.String("error", err.Error()))
			continue
		}
		return &event, nil
	}
}

func (s *httpSource) Close() {
	if s.body != nil {
		s.body.Close()
		s.body = nil
		s.scanner = nil
	}
}
