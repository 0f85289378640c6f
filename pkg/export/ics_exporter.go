// Package export renders generated schedules as downloadable documents.
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/terpsched/schedule-api/internal/models"
)

const defaultSemesterWeeks = 15

var icalDayTokens = map[models.Weekday]string{
	models.Monday:    "MO",
	models.Tuesday:   "TU",
	models.Wednesday: "WE",
	models.Thursday:  "TH",
	models.Friday:    "FR",
}

var goWeekdays = map[models.Weekday]time.Weekday{
	models.Monday:    time.Monday,
	models.Tuesday:   time.Tuesday,
	models.Wednesday: time.Wednesday,
	models.Thursday:  time.Thursday,
	models.Friday:    time.Friday,
}

// ICSExporter renders schedules as iCalendar documents with one
// weekly-recurring event per meeting block.
type ICSExporter struct {
	ProdID       string
	DefaultWeeks int
}

// NewICSExporter constructs an exporter. defaultWeeks bounds the recurrence
// when a request leaves the span unset; 0 falls back to a semester length.
func NewICSExporter(prodID string, defaultWeeks int) *ICSExporter {
	if prodID == "" {
		prodID = "-//terpsched//schedule-api//EN"
	}
	if defaultWeeks <= 0 {
		defaultWeeks = defaultSemesterWeeks
	}
	return &ICSExporter{ProdID: prodID, DefaultWeeks: defaultWeeks}
}

// Export serialises the schedule's meetings starting from the first day of
// classes. weeks bounds the recurrence; 0 uses the exporter default.
func (e *ICSExporter) Export(schedule models.Schedule, start time.Time, weeks int) (string, error) {
	if len(schedule.Sections) == 0 {
		return "", fmt.Errorf("schedule has no sections")
	}
	if weeks <= 0 {
		weeks = e.DefaultWeeks
	}
	if weeks <= 0 {
		weeks = defaultSemesterWeeks
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.ProdID)

	courseIDs := make([]string, 0, len(schedule.Sections))
	for courseID := range schedule.Sections {
		courseIDs = append(courseIDs, courseID)
	}
	sort.Strings(courseIDs)

	until := start.AddDate(0, 0, weeks*7)
	for _, courseID := range courseIDs {
		section := schedule.Sections[courseID]
		for i, meeting := range section.Meetings {
			if len(meeting.Days) == 0 {
				continue
			}
			first := firstOccurrence(start, meeting.Days)

			event := cal.AddEvent(fmt.Sprintf("%s-%s-%d@terpsched", courseID, section.SectionID, i))
			event.SetCreatedTime(time.Now().UTC())
			event.SetDtStampTime(time.Now().UTC())
			event.SetStartAt(atMinutes(first, meeting.StartMinutes))
			event.SetEndAt(atMinutes(first, meeting.EndMinutes))
			event.SetSummary(strings.TrimSpace(fmt.Sprintf("%s %s", courseID, meeting.Kind)))
			if meeting.Location != "" {
				event.SetLocation(meeting.Location)
			}
			if len(section.Instructors) > 0 {
				event.SetDescription("Instructors: " + strings.Join(section.Instructors, ", "))
			}
			event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s",
				byDay(meeting.Days), until.UTC().Format("20060102T150405Z")))
		}
	}

	return cal.Serialize(), nil
}

// firstOccurrence finds the earliest date on or after start that falls on
// one of the meeting days.
func firstOccurrence(start time.Time, days []models.Weekday) time.Time {
	for offset := 0; offset < 7; offset++ {
		candidate := start.AddDate(0, 0, offset)
		for _, day := range days {
			if candidate.Weekday() == goWeekdays[day] {
				return candidate
			}
		}
	}
	return start
}

func atMinutes(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

func byDay(days []models.Weekday) string {
	tokens := make([]string, 0, len(days))
	for _, day := range days {
		if token, ok := icalDayTokens[day]; ok {
			tokens = append(tokens, token)
		}
	}
	return strings.Join(tokens, ",")
}
