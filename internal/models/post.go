package models

import "time"

// Post is one accepted, normalized stream event as stored in Postgres.
// Rows are append-only: ingestion inserts them once and aggregation only
// reads them back.
type Post struct {
	ID            string     `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	Text          string     `json:"text"`
	Polarity      float64    `json:"polarity"`
	Subjectivity  float64    `json:"subjectivity"`
	UserCreatedAt *time.Time `json:"user_created_at,omitempty"`
	UserLocation  *string    `json:"user_location,omitempty"`
	UserBio       *string    `json:"user_description,omitempty"`
	FollowerCount int        `json:"user_followers_count"`
	Longitude     *float64   `json:"longitude,omitempty"`
	Latitude      *float64   `json:"latitude,omitempty"`
	RetweetCount  int        `json:"retweet_count"`
	FavoriteCount int        `json:"favorite_count"`
}
