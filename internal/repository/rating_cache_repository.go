package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/terpsched/schedule-api/pkg/errors"
)

// RatingCacheRepository stores resolved instructor ratings in Redis so
// overlapping requests share provider results. Entries expire; stale values
// are acceptable.
type RatingCacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRatingCacheRepository constructs a rating cache repository.
func NewRatingCacheRepository(client *redis.Client, ttl time.Duration) *RatingCacheRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RatingCacheRepository{client: client, ttl: ttl}
}

// Get returns the cached rating for an instructor, or ErrCacheMiss.
func (r *RatingCacheRepository) Get(ctx context.Context, name string) (float64, error) {
	if r.client == nil {
		return 0, appErrors.ErrCacheMiss
	}
	raw, err := r.client.Get(ctx, ratingKey(name)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, appErrors.ErrCacheMiss
		}
		return 0, fmt.Errorf("redis get rating for %s: %w", name, err)
	}
	rating, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("decode cached rating for %s: %w", name, err)
	}
	return rating, nil
}

// Set stores one instructor rating with the configured TTL.
func (r *RatingCacheRepository) Set(ctx context.Context, name string, rating float64) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Set(ctx, ratingKey(name), strconv.FormatFloat(rating, 'f', -1, 64), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set rating for %s: %w", name, err)
	}
	return nil
}

func ratingKey(name string) string {
	return "rating:" + strings.ToLower(strings.TrimSpace(name))
}
