package service

import (
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/terpsched/schedule-api/internal/models"
)

// Overlaps reports whether two sections collide in time: some meeting of a
// and some meeting of b share a weekday and their [start, end) minute
// intervals intersect. Symmetric and side-effect free.
func Overlaps(a, b models.Section) bool {
	for _, ma := range a.Meetings {
		for _, mb := range b.Meetings {
			if !daysIntersect(ma.Days, mb.Days) {
				continue
			}
			if ma.StartMinutes < mb.EndMinutes && mb.StartMinutes < ma.EndMinutes {
				return true
			}
		}
	}
	return false
}

func daysIntersect(a, b []models.Weekday) bool {
	return lo.SomeBy(a, func(day models.Weekday) bool {
		return lo.Contains(b, day)
	})
}

// RankOrder names the direction schedules are sorted in. The observed
// product behaviour is ascending by quality weight; the policy type exists
// so the direction stays a single switchable value.
type RankOrder string

const (
	RankAscending  RankOrder = "asc"
	RankDescending RankOrder = "desc"
)

// ParseRankOrder normalises a configured direction string to one of the two
// policies. Both the short and long spellings are accepted; anything else
// falls back to ascending.
func ParseRankOrder(raw string) RankOrder {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "desc", "descending":
		return RankDescending
	default:
		return RankAscending
	}
}

// Rank orders schedules by aggregate quality weight. The sort is stable, so
// ties keep their discovery order.
func Rank(schedules []models.Schedule, order RankOrder) []models.Schedule {
	descending := ParseRankOrder(string(order)) == RankDescending
	ranked := make([]models.Schedule, len(schedules))
	copy(ranked, schedules)
	sort.SliceStable(ranked, func(i, j int) bool {
		if descending {
			return ranked[i].QualityWeight > ranked[j].QualityWeight
		}
		return ranked[i].QualityWeight < ranked[j].QualityWeight
	})
	return ranked
}

// Search enumerates every complete, conflict-free assignment of one section
// per requested course. Variables are ordered by minimum remaining values
// with ties broken by input order; exploration is exhaustive, and a
// signature set suppresses permutation-equivalent duplicates.
//
// The state is confined to one call stack, so a Search call is safe to run
// per request without any shared locking.
func Search(courses []string, domains models.Domain) []models.Schedule {
	state := &searchState{
		courses:    courses,
		domains:    domains,
		assignment: make(map[string]models.Section, len(courses)),
		seen:       make(map[string]struct{}),
	}
	state.backtrack()
	return state.results
}

type searchState struct {
	courses    []string
	domains    models.Domain
	assignment map[string]models.Section
	seen       map[string]struct{}
	results    []models.Schedule
}

func (s *searchState) backtrack() {
	if len(s.assignment) == len(s.courses) {
		s.emit()
		return
	}

	course := s.selectCourse()
	for _, candidate := range s.candidates(course) {
		if !s.fits(candidate) {
			continue
		}
		s.assignment[course] = candidate
		s.backtrack()
		delete(s.assignment, course)
	}
}

// selectCourse picks the unassigned course with the fewest remaining
// candidates. Strict less keeps the input-order tie break.
func (s *searchState) selectCourse() string {
	best := ""
	bestSize := -1
	for _, course := range s.courses {
		if _, assigned := s.assignment[course]; assigned {
			continue
		}
		size := len(s.candidates(course))
		if bestSize < 0 || size < bestSize {
			best = course
			bestSize = size
		}
	}
	return best
}

// candidates returns the course's domain minus any section already chosen
// for another course. Domains are partitioned per course so the exclusion
// should never fire; it guards against malformed input.
func (s *searchState) candidates(course string) []models.Section {
	return lo.Filter(s.domains[course], func(section models.Section, _ int) bool {
		for _, chosen := range s.assignment {
			if chosen.Key() == section.Key() {
				return false
			}
		}
		return true
	})
}

func (s *searchState) fits(candidate models.Section) bool {
	for _, chosen := range s.assignment {
		if Overlaps(candidate, chosen) {
			return false
		}
	}
	return true
}

func (s *searchState) emit() {
	signature := models.ScheduleSignature(s.assignment)
	if _, dup := s.seen[signature]; dup {
		return
	}
	s.seen[signature] = struct{}{}

	sections := make(map[string]models.Section, len(s.assignment))
	total := 0.0
	for courseID, section := range s.assignment {
		sections[courseID] = section
		total += section.QualityWeight
	}
	weight := 0.0
	if len(sections) > 0 {
		weight = round2(total / float64(len(sections)))
	}
	s.results = append(s.results, models.Schedule{
		Sections:      sections,
		QualityWeight: weight,
		Signature:     signature,
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
