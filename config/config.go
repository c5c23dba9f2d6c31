package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// IngestConfig collects everything the ingestion process reads from the
// environment. Zero backoff values reproduce the original immediate-retry
// behavior; MaxAttempts == 0 retries forever.
type IngestConfig struct {
	StreamSource   string   // "http" or "kafka"
	TrackWords     []string // filter terms passed to the stream source
	Language       string   // keep only events in this language, "" keeps all
	BackoffInitial time.Duration
	BackoffMax     time.Duration
	MaxAttempts    int
}

type DashboardConfig struct {
	Addr            string
	RefreshInterval time.Duration
	Window          time.Duration
	BucketSize      time.Duration
	RollingWindow   time.Duration
	LookupPath      string
	DropTopHashtag  bool
}

func GetIngestConfig() IngestConfig {
	return IngestConfig{
		StreamSource:   getEnv("STREAM_SOURCE", "http"),
		TrackWords:     splitList(getEnv("TRACK_WORDS", "Corona Virus,Corona,COVID19,Covid-19")),
		Language:       getEnv("STREAM_LANGUAGE", "en"),
		BackoffInitial: getDurationMs("STREAM_BACKOFF_INITIAL_MS", 500),
		BackoffMax:     getDurationMs("STREAM_BACKOFF_MAX_MS", 60000),
		MaxAttempts:    getInt("STREAM_MAX_ATTEMPTS", 0),
	}
}

func GetDashboardConfig() DashboardConfig {
	return DashboardConfig{
		Addr:            getEnv("DASHBOARD_ADDR", ":8080"),
		RefreshInterval: time.Duration(getInt("REFRESH_INTERVAL", 50)) * time.Second,
		Window:          time.Duration(getInt("WINDOW_MINUTES", 30)) * time.Minute,
		BucketSize:      time.Duration(getInt("BUCKET_SECONDS", 10)) * time.Second,
		RollingWindow:   time.Duration(getInt("ROLLING_MINUTES", 10)) * time.Minute,
		LookupPath:      getEnv("LOCATION_LOOKUP_PATH", "countries.json"),
		DropTopHashtag:  getBool("DROP_TOP_HASHTAG", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDurationMs(key string, defaultValue int) time.Duration {
	return time.Duration(getInt(key, defaultValue)) * time.Millisecond
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
