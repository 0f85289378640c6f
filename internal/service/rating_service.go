package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/terpsched/schedule-api/internal/models"
	appErrors "github.com/terpsched/schedule-api/pkg/errors"
)

// RatingProvider supplies instructor quality scores from an external source.
// ok is false when the source has no data for the name; that is not an error.
type RatingProvider interface {
	GetRating(ctx context.Context, name string) (rating float64, ok bool, err error)
}

// RatingStore persists resolved ratings across requests. Implementations may
// serve stale values; corruption is the only failure that matters.
type RatingStore interface {
	Get(ctx context.Context, name string) (float64, error)
	Set(ctx context.Context, name string, rating float64) error
}

// RatingService memoises instructor quality scores. Concurrent lookups for
// the same name coalesce into a single provider call; provider errors and
// missing data both degrade to a neutral weight of 0.
type RatingService struct {
	provider RatingProvider
	store    RatingStore
	metrics  *MetricsService
	logger   *zap.Logger

	mu      sync.Mutex
	entries map[string]*ratingEntry
}

type ratingEntry struct {
	done   chan struct{}
	rating float64
}

// NewRatingService wires the rating cache. store may be nil when no
// cross-request persistence is configured.
func NewRatingService(provider RatingProvider, store RatingStore, metrics *MetricsService, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{
		provider: provider,
		store:    store,
		metrics:  metrics,
		logger:   logger,
		entries:  make(map[string]*ratingEntry),
	}
}

// Rating returns the cached quality score for one instructor, resolving it
// once on first use. The zero weight stands in for "no data" and for
// provider failures alike.
func (s *RatingService) Rating(ctx context.Context, name string) float64 {
	s.mu.Lock()
	if entry, ok := s.entries[name]; ok {
		s.mu.Unlock()
		select {
		case <-entry.done:
			return entry.rating
		case <-ctx.Done():
			return 0
		}
	}
	entry := &ratingEntry{done: make(chan struct{})}
	s.entries[name] = entry
	s.mu.Unlock()

	entry.rating = s.resolve(ctx, name)
	close(entry.done)
	return entry.rating
}

// SectionWeight computes a section's quality weight as the arithmetic mean
// of its instructors' ratings, recomputed over the full current list.
func (s *RatingService) SectionWeight(ctx context.Context, instructors []string) float64 {
	if len(instructors) == 0 {
		return 0
	}
	total := 0.0
	for _, name := range instructors {
		total += s.Rating(ctx, name)
	}
	return round2(total / float64(len(instructors)))
}

// WeightDomain assigns a quality weight to every section in the domain.
// Distinct instructor names resolve concurrently; the coalescing in Rating
// keeps repeated names down to one provider call.
func (s *RatingService) WeightDomain(ctx context.Context, domains models.Domain) {
	names := make(map[string]struct{})
	for _, sections := range domains {
		for _, section := range sections {
			for _, name := range section.Instructors {
				names[name] = struct{}{}
			}
		}
	}

	var wg sync.WaitGroup
	for name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			s.Rating(ctx, name)
		}(name)
	}
	wg.Wait()

	for courseID, sections := range domains {
		for i := range sections {
			sections[i].QualityWeight = s.SectionWeight(ctx, sections[i].Instructors)
		}
		domains[courseID] = sections
	}
}

func (s *RatingService) resolve(ctx context.Context, name string) float64 {
	if s.store != nil {
		rating, err := s.store.Get(ctx, name)
		if err == nil {
			if s.metrics != nil {
				s.metrics.RecordRatingCache(true)
			}
			return rating
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("rating store read failed", zap.String("instructor", name), zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.RecordRatingCache(false)
	}

	rating, ok, err := s.provider.GetRating(ctx, name)
	if err != nil {
		s.logger.Warn("rating lookup failed", zap.String("instructor", name), zap.Error(err))
		return 0
	}
	if !ok {
		return 0
	}

	rounded := round2(rating)
	if s.store != nil {
		if err := s.store.Set(ctx, name, rounded); err != nil {
			s.logger.Warn("rating store write failed", zap.String("instructor", name), zap.Error(err))
		}
	}
	return rounded
}
