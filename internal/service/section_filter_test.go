package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terpsched/schedule-api/internal/models"
)

func TestFilterSectionsSeatFloor(t *testing.T) {
	sections := []models.Section{
		{CourseID: "CMSC131", SectionID: "0101", OpenSeats: 0},
		{CourseID: "CMSC131", SectionID: "0102", OpenSeats: 1},
		{CourseID: "CMSC131", SectionID: "0103", OpenSeats: 12},
	}

	got := FilterSections(sections, models.Restrictions{MinOpenSeats: 1})
	require.Len(t, got, 2)
	assert.Equal(t, "0102", got[0].SectionID)
	assert.Equal(t, "0103", got[1].SectionID)

	// Zero floor keeps everything, full sections included.
	got = FilterSections(sections, models.Restrictions{})
	assert.Len(t, got, 3)
}

func TestFilterSectionsProhibitedInstructor(t *testing.T) {
	sections := []models.Section{
		{CourseID: "MATH140", SectionID: "0101", OpenSeats: 5, Instructors: []string{"Ada Lovelace"}},
		{CourseID: "MATH140", SectionID: "0102", OpenSeats: 5, Instructors: []string{"Alan Turing", "Ada Lovelace"}},
		{CourseID: "MATH140", SectionID: "0103", OpenSeats: 5, Instructors: []string{"Alan Turing"}},
	}

	got := FilterSections(sections, models.Restrictions{
		ProhibitedInstructors: []string{"  ada lovelace "},
	})
	require.Len(t, got, 1, "any listed prohibited instructor disqualifies the section")
	assert.Equal(t, "0103", got[0].SectionID)
}

func TestFilterSectionsProhibitedTime(t *testing.T) {
	sections := []models.Section{
		{CourseID: "ENGL101", SectionID: "0101", OpenSeats: 5, Meetings: []models.Meeting{
			mkMeeting(600, 650, models.Monday, models.Wednesday),
		}},
		{CourseID: "ENGL101", SectionID: "0102", OpenSeats: 5, Meetings: []models.Meeting{
			mkMeeting(600, 650, models.Tuesday, models.Thursday),
		}},
		{CourseID: "ENGL101", SectionID: "0103", OpenSeats: 5, Meetings: []models.Meeting{
			mkMeeting(650, 700, models.Monday),
		}},
	}

	got := FilterSections(sections, models.Restrictions{
		ProhibitedTimes: []models.TimeWindow{{Day: models.Monday, StartMinutes: 600, EndMinutes: 650}},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "0102", got[0].SectionID, "same minutes on a different day survive")
	assert.Equal(t, "0103", got[1].SectionID, "meeting starting exactly at the window end survives")
}

func TestFilterSectionsDoesNotMutateInput(t *testing.T) {
	sections := []models.Section{
		{CourseID: "A", SectionID: "1", OpenSeats: 0},
		{CourseID: "A", SectionID: "2", OpenSeats: 9},
	}

	_ = FilterSections(sections, models.Restrictions{MinOpenSeats: 5})
	assert.Equal(t, "1", sections[0].SectionID)
	assert.Equal(t, "2", sections[1].SectionID)
}

func TestFilterSectionsEmptyResult(t *testing.T) {
	sections := []models.Section{
		{CourseID: "A", SectionID: "1", OpenSeats: 2, Instructors: []string{"X"}},
	}

	got := FilterSections(sections, models.Restrictions{ProhibitedInstructors: []string{"X"}})
	assert.Empty(t, got)
}
