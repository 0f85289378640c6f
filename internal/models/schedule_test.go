package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWeekdays(t *testing.T) {
	cases := []struct {
		raw  string
		want []Weekday
	}{
		{"MWF", []Weekday{Monday, Wednesday, Friday}},
		{"TuTh", []Weekday{Tuesday, Thursday}},
		{"MTuWThF", []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}},
		{"W", []Weekday{Wednesday}},
		{"", nil},
		{"Sa", nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseWeekdays(tc.raw), tc.raw)
	}
}

func TestMeetingMeetsOn(t *testing.T) {
	meeting := Meeting{Days: []Weekday{Monday, Wednesday}}
	assert.True(t, meeting.MeetsOn(Monday))
	assert.False(t, meeting.MeetsOn(Tuesday))
}

func TestSectionKey(t *testing.T) {
	section := Section{CourseID: "CMSC131", SectionID: "0101"}
	assert.Equal(t, "CMSC131-0101", section.Key())
}

func TestScheduleSignature(t *testing.T) {
	a := map[string]Section{
		"CMSC131": {CourseID: "CMSC131", SectionID: "0101"},
		"MATH140": {CourseID: "MATH140", SectionID: "0201"},
	}
	b := map[string]Section{
		"MATH140": {CourseID: "MATH140", SectionID: "0201"},
		"CMSC131": {CourseID: "CMSC131", SectionID: "0101"},
	}

	assert.Equal(t, "CMSC131=0101|MATH140=0201", ScheduleSignature(a))
	assert.Equal(t, ScheduleSignature(a), ScheduleSignature(b), "signature is order independent")

	c := map[string]Section{
		"CMSC131": {CourseID: "CMSC131", SectionID: "0102"},
		"MATH140": {CourseID: "MATH140", SectionID: "0201"},
	}
	assert.NotEqual(t, ScheduleSignature(a), ScheduleSignature(c))
}
