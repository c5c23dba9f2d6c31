package models

import "time"

// SeriesPoint is one fixed-width time bucket of the sentiment series.
// Every bucket in the window appears for every polarity class, zero
// counts included.
type SeriesPoint struct {
	Bucket   time.Time `json:"bucket"`
	Polarity int       `json:"polarity"`
	Count    int       `json:"count"`
}

type RollingCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// PercentChange reports post volume change versus the prior window.
// HasPrior is false when the prior window was empty and no meaningful
// percentage exists.
type PercentChange struct {
	Percent  float64 `json:"percent"`
	HasPrior bool    `json:"has_prior"`
}

type RegionCount struct {
	Region   string  `json:"region"`
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	LogCount float64 `json:"log_count"`
	Hover    string  `json:"hover"`
}

type HashtagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Snapshot is one full aggregation pass over the recent window, the unit
// the dashboard renders.
type Snapshot struct {
	GeneratedAt   time.Time      `json:"generated_at"`
	WindowStart   time.Time      `json:"window_start"`
	Series        []SeriesPoint  `json:"series"`
	Rolling       RollingCounts  `json:"rolling"`
	Change        PercentChange  `json:"change"`
	Regions       []RegionCount  `json:"regions"`
	Hashtags      []HashtagCount `json:"hashtags"`
	Words         []WordCount    `json:"words"`
	TotalPosts    int64          `json:"total_posts"`
	PostsToday    int64          `json:"posts_today"`
}
