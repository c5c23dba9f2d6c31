package models

import "time"

// StreamEvent is the wire shape of one post event from the streaming
// source. The source may truncate Text and carry the full body in
// ExtendedText; reposts carry the original event under Retweeted.
type StreamEvent struct {
	ID            string       `json:"id"`
	CreatedAt     time.Time    `json:"created_at"`
	Text          string       `json:"text"`
	ExtendedText  string       `json:"extended_text,omitempty"`
	Language      string       `json:"lang,omitempty"`
	IsRetweet     bool         `json:"is_retweet"`
	Retweeted     *StreamEvent `json:"retweeted_status,omitempty"`
	User          StreamAuthor `json:"user"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
	RetweetCount  int          `json:"retweet_count"`
	FavoriteCount int          `json:"favorite_count"`
}

type StreamAuthor struct {
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	Location       string     `json:"location,omitempty"`
	Description    string     `json:"description,omitempty"`
	FollowersCount int        `json:"followers_count"`
}

// Coordinates follows the GeoJSON point convention: longitude first.
type Coordinates struct {
	Point [2]float64 `json:"coordinates"`
}

// FullText returns the best available body for an event: the extended
// text when the source truncated, otherwise the plain text. Original
// content wins over the reposted-from body.
func (e *StreamEvent) FullText() string {
	if e.ExtendedText != "" {
		return e.ExtendedText
	}
	if e.Text != "" {
		return e.Text
	}
	if e.Retweeted != nil {
		return e.Retweeted.FullText()
	}
	return ""
}
