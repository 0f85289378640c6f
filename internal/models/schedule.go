package models

import (
	"fmt"
	"sort"
	"strings"
)

// Weekday is a single meeting-day token as used by the catalog feeds.
type Weekday string

const (
	Monday    Weekday = "M"
	Tuesday   Weekday = "Tu"
	Wednesday Weekday = "W"
	Thursday  Weekday = "Th"
	Friday    Weekday = "F"
)

// Weekdays lists the tokens in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// ParseWeekdays splits a compact day string such as "MWF" or "TuTh" into
// tokens. Unknown characters are skipped.
func ParseWeekdays(raw string) []Weekday {
	var days []Weekday
	for i := 0; i < len(raw); {
		switch {
		case strings.HasPrefix(raw[i:], "Tu"):
			days = append(days, Tuesday)
			i += 2
		case strings.HasPrefix(raw[i:], "Th"):
			days = append(days, Thursday)
			i += 2
		case raw[i] == 'M':
			days = append(days, Monday)
			i++
		case raw[i] == 'W':
			days = append(days, Wednesday)
			i++
		case raw[i] == 'F':
			days = append(days, Friday)
			i++
		default:
			i++
		}
	}
	return days
}

// Meeting is one recurring time block of a section. Start and end are
// minutes since midnight and form a half-open interval [start, end).
type Meeting struct {
	Days         []Weekday `json:"days"`
	StartMinutes int       `json:"startMinutes"`
	EndMinutes   int       `json:"endMinutes"`
	Location     string    `json:"location,omitempty"`
	Kind         string    `json:"kind,omitempty"`
}

// MeetsOn reports whether the meeting occurs on the given day.
func (m Meeting) MeetsOn(day Weekday) bool {
	for _, d := range m.Days {
		if d == day {
			return true
		}
	}
	return false
}

// Section is one offered instance of a course in a term.
type Section struct {
	CourseID      string    `json:"courseId" db:"course_id"`
	SectionID     string    `json:"sectionId" db:"section_id"`
	Instructors   []string  `json:"instructors"`
	Meetings      []Meeting `json:"meetings"`
	TotalSeats    int       `json:"totalSeats" db:"total_seats"`
	OpenSeats     int       `json:"openSeats" db:"open_seats"`
	WaitlistCount int       `json:"waitlistCount" db:"waitlist_count"`

	// QualityWeight is assigned by the rating service. 0 means no data.
	QualityWeight float64 `json:"qualityWeight"`
}

// Key identifies a section uniquely across courses.
func (s Section) Key() string {
	return s.CourseID + "-" + s.SectionID
}

// Course is a catalog offering and its sections for one term.
type Course struct {
	CourseID string    `json:"courseId"`
	Sections []Section `json:"sections"`
}

// TimeWindow is a single prohibited block on one weekday.
type TimeWindow struct {
	Day          Weekday `json:"day" validate:"required"`
	StartMinutes int     `json:"startMinutes" validate:"min=0,max=1440"`
	EndMinutes   int     `json:"endMinutes" validate:"min=0,max=1440,gtfield=StartMinutes"`
}

// Restrictions are the hard constraints a caller imposes on every domain.
type Restrictions struct {
	MinOpenSeats          int          `json:"minOpenSeats" validate:"min=0"`
	ProhibitedInstructors []string     `json:"prohibitedInstructors"`
	ProhibitedTimes       []TimeWindow `json:"prohibitedTimes" validate:"dive"`
	RequiredCourses       []string     `json:"requiredCourses"`
}

// Domain maps each requested course to the sections still eligible for it
// after filtering. A key with an empty slice marks the course infeasible.
type Domain map[string][]Section

// Schedule is a complete, conflict-free assignment of one section per
// requested course, plus its aggregate instructor-quality weight.
type Schedule struct {
	Sections      map[string]Section `json:"sections"`
	QualityWeight float64            `json:"qualityWeight"`
	Signature     string             `json:"-"`
}

// ScheduleSignature builds the canonical identity of an assignment: the
// sorted course=section pairs. Permutation-equivalent assignments collapse
// to the same signature.
func ScheduleSignature(assignment map[string]Section) string {
	pairs := make([]string, 0, len(assignment))
	for courseID, section := range assignment {
		pairs = append(pairs, fmt.Sprintf("%s=%s", courseID, section.SectionID))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "|")
}
