package service

import (
	"strings"

	"github.com/samber/lo"

	"github.com/terpsched/schedule-api/internal/models"
)

// FilterSections applies the caller's hard restrictions to a raw section
// list, producing the candidate pool for one course. The relative order of
// surviving sections is preserved and the input is never mutated.
func FilterSections(sections []models.Section, restrictions models.Restrictions) []models.Section {
	prohibited := make(map[string]struct{}, len(restrictions.ProhibitedInstructors))
	for _, name := range restrictions.ProhibitedInstructors {
		prohibited[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	return lo.Filter(sections, func(section models.Section, _ int) bool {
		if section.OpenSeats < restrictions.MinOpenSeats {
			return false
		}
		if hasProhibitedInstructor(section, prohibited) {
			return false
		}
		return !hitsProhibitedTime(section, restrictions.ProhibitedTimes)
	})
}

func hasProhibitedInstructor(section models.Section, prohibited map[string]struct{}) bool {
	if len(prohibited) == 0 {
		return false
	}
	return lo.SomeBy(section.Instructors, func(name string) bool {
		_, blocked := prohibited[strings.ToLower(strings.TrimSpace(name))]
		return blocked
	})
}

func hitsProhibitedTime(section models.Section, windows []models.TimeWindow) bool {
	for _, meeting := range section.Meetings {
		for _, window := range windows {
			if !meeting.MeetsOn(window.Day) {
				continue
			}
			if meeting.StartMinutes < window.EndMinutes && window.StartMinutes < meeting.EndMinutes {
				return true
			}
		}
	}
	return false
}
