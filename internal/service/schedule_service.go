package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/terpsched/schedule-api/internal/dto"
	"github.com/terpsched/schedule-api/internal/models"
	appErrors "github.com/terpsched/schedule-api/pkg/errors"
)

// SectionProvider supplies raw, unfiltered sections for one course in one
// term. An empty list is a valid response; errors are transport failures.
type SectionProvider interface {
	GetSections(ctx context.Context, courseID, term string) ([]models.Section, error)
}

// ScheduleConfig governs orchestration behaviour.
type ScheduleConfig struct {
	DefaultTerm     string
	ProviderTimeout time.Duration
	RankOrder       RankOrder
}

// ScheduleService runs the scheduling pipeline: retrieval, filtering,
// weighting, search and ranking.
type ScheduleService struct {
	sections  SectionProvider
	ratings   *RatingService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScheduleConfig
}

// NewScheduleService wires the scheduling pipeline dependencies.
func NewScheduleService(
	sections SectionProvider,
	ratings *RatingService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleConfig,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 15 * time.Second
	}
	cfg.RankOrder = ParseRankOrder(string(cfg.RankOrder))
	return &ScheduleService{
		sections:  sections,
		ratings:   ratings,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Create builds every valid schedule for the requested courses under the
// given restrictions and returns them ranked by instructor quality.
func (s *ScheduleService) Create(ctx context.Context, req dto.CreateScheduleRequest) (*dto.CreateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule request")
	}
	if dup := firstDuplicate(req.Courses); dup != "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %s requested more than once", dup))
	}
	for _, required := range req.Restrictions.RequiredCourses {
		if !lo.Contains(req.Courses, required) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("required course %s is not in the requested list", required))
		}
	}

	term := req.Semester
	if term == "" {
		term = s.cfg.DefaultTerm
	}

	retrieved, err := s.retrieveSections(ctx, req.Courses, term)
	if err != nil {
		return nil, err
	}

	domains := make(models.Domain, len(req.Courses))
	var infeasible []string
	for _, courseID := range req.Courses {
		filtered := FilterSections(retrieved[courseID], req.Restrictions)
		domains[courseID] = filtered
		if len(filtered) == 0 {
			infeasible = append(infeasible, courseID)
		}
	}

	switch {
	case len(infeasible) == len(req.Courses):
		return nil, appErrors.WithDetails(appErrors.ErrAllCoursesInfeasible, map[string]any{"courses": infeasible})
	case len(infeasible) > 0:
		return nil, appErrors.WithDetails(appErrors.ErrPartialInfeasibility, map[string]any{"courses": infeasible})
	}

	if s.ratings != nil {
		s.ratings.WeightDomain(ctx, domains)
	}

	start := time.Now()
	schedules := Search(req.Courses, domains)
	if s.metrics != nil {
		s.metrics.ObserveSearch(time.Since(start), len(schedules))
	}
	s.logger.Debug("search finished",
		zap.Int("courses", len(req.Courses)),
		zap.Int("schedules", len(schedules)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if len(schedules) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoFeasibleCombination, "")
	}

	return &dto.CreateScheduleResponse{
		Semester:  term,
		Schedules: Rank(schedules, s.cfg.RankOrder),
	}, nil
}

// retrieveSections fans out one provider call per course under a shared
// deadline. Every course's result is collected even when another course
// fails; the request still fails on the first failing course in input order.
func (s *ScheduleService) retrieveSections(ctx context.Context, courses []string, term string) (map[string][]models.Section, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	type result struct {
		sections []models.Section
		err      error
	}
	results := make([]result, len(courses))

	done := make(chan int, len(courses))
	for i, courseID := range courses {
		go func(i int, courseID string) {
			sections, err := s.sections.GetSections(ctx, courseID, term)
			results[i] = result{sections: sections, err: err}
			done <- i
		}(i, courseID)
	}
	for range courses {
		<-done
	}

	retrieved := make(map[string][]models.Section, len(courses))
	for i, courseID := range courses {
		if err := results[i].err; err != nil {
			s.logger.Warn("section retrieval failed", zap.String("course", courseID), zap.Error(err))
			return nil, appErrors.WithDetails(
				appErrors.Wrap(err, appErrors.ErrRetrieval.Code, appErrors.ErrRetrieval.Status,
					fmt.Sprintf("failed to retrieve sections for %s", courseID)),
				map[string]any{"course": courseID},
			)
		}
		retrieved[courseID] = results[i].sections
	}
	return retrieved, nil
}

func firstDuplicate(courses []string) string {
	seen := make(map[string]struct{}, len(courses))
	for _, courseID := range courses {
		if _, ok := seen[courseID]; ok {
			return courseID
		}
		seen[courseID] = struct{}{}
	}
	return ""
}
