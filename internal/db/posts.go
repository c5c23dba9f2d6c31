package db

import (
	"context"
	"time"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/models"
)

// InsertPost appends one post row. Reconnect-induced redelivery can hand
// us the same id twice, so conflicting ids are silently dropped rather
// than treated as an error.
func (s *PostStore) InsertPost(ctx context.Context, post models.Post) error {
	query := `
        INSERT INTO posts (
            id, created_at, text, polarity, subjectivity,
            user_created_at, user_location, user_description,
            user_followers_count, longitude, latitude,
            retweet_count, favorite_count
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (id) DO NOTHING
    `

	_, err := s.pool.Exec(ctx, query,
		post.ID, post.CreatedAt, post.Text, post.Polarity, post.Subjectivity,
		post.UserCreatedAt, post.UserLocation, post.UserBio,
		post.FollowerCount, post.Longitude, post.Latitude,
		post.RetweetCount, post.FavoriteCount)

	return err
}

// PostsSince returns every row with created_at at or after the cutoff,
// the windowed read behind each aggregation pass.
func (s *PostStore) PostsSince(ctx context.Context, since time.Time) ([]models.Post, error) {
	query := `
        SELECT id, created_at, text, polarity, subjectivity,
               user_created_at, user_location, user_description,
               user_followers_count, longitude, latitude,
               retweet_count, favorite_count
        FROM posts
        WHERE created_at >= $1
        ORDER BY created_at
    `

	rows, err := s.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.CreatedAt, &p.Text, &p.Polarity, &p.Subjectivity,
			&p.UserCreatedAt, &p.UserLocation, &p.UserBio,
			&p.FollowerCount, &p.Longitude, &p.Latitude,
			&p.RetweetCount, &p.FavoriteCount); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

func (s *PostStore) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM posts WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}

func (s *PostStore) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&count)
	return count, err
}
