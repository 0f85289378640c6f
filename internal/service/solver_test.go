package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terpsched/schedule-api/internal/models"
)

func mkSection(courseID, sectionID string, weight float64, meetings ...models.Meeting) models.Section {
	return models.Section{
		CourseID:      courseID,
		SectionID:     sectionID,
		Meetings:      meetings,
		OpenSeats:     10,
		TotalSeats:    30,
		QualityWeight: weight,
	}
}

func mkMeeting(start, end int, days ...models.Weekday) models.Meeting {
	return models.Meeting{Days: days, StartMinutes: start, EndMinutes: end}
}

func TestOverlaps(t *testing.T) {
	mwf10 := mkSection("CMSC131", "0101", 0, mkMeeting(600, 650, models.Monday, models.Wednesday, models.Friday))
	mwf10b := mkSection("MATH140", "0201", 0, mkMeeting(620, 670, models.Monday))
	tuth10 := mkSection("ENGL101", "0301", 0, mkMeeting(600, 675, models.Tuesday, models.Thursday))
	mwf11 := mkSection("HIST200", "0401", 0, mkMeeting(660, 710, models.Monday, models.Wednesday, models.Friday))

	assert.True(t, Overlaps(mwf10, mwf10b), "same day, intersecting minutes")
	assert.False(t, Overlaps(mwf10, tuth10), "disjoint day sets never collide")
	assert.False(t, Overlaps(mwf10, mwf11), "back-to-back half-open intervals do not collide")
}

func TestOverlapsSymmetric(t *testing.T) {
	a := mkSection("A", "1", 0, mkMeeting(540, 600, models.Monday), mkMeeting(720, 780, models.Wednesday))
	b := mkSection("B", "1", 0, mkMeeting(750, 810, models.Wednesday))

	assert.Equal(t, Overlaps(a, b), Overlaps(b, a))
	assert.True(t, Overlaps(a, b))
}

func TestOverlapsSectionWithNoMeetings(t *testing.T) {
	online := mkSection("CMSC389", "0101", 0)
	other := mkSection("MATH140", "0101", 0, mkMeeting(600, 650, models.Monday))

	assert.False(t, Overlaps(online, other), "a section with no meetings fits anywhere")
}

func TestSearchEnumeratesAllConflictFreeCombinations(t *testing.T) {
	domains := models.Domain{
		"CMSC131": {
			mkSection("CMSC131", "0101", 0, mkMeeting(600, 650, models.Monday, models.Wednesday)),
			mkSection("CMSC131", "0102", 0, mkMeeting(600, 675, models.Tuesday, models.Thursday)),
		},
		"MATH140": {
			mkSection("MATH140", "0101", 0, mkMeeting(600, 650, models.Monday, models.Wednesday)),
			mkSection("MATH140", "0102", 0, mkMeeting(720, 770, models.Monday, models.Wednesday)),
		},
	}
	courses := []string{"CMSC131", "MATH140"}

	got := Search(courses, domains)

	// CMSC131-0101 conflicts with MATH140-0101; the other three pairs work.
	require.Len(t, got, 3)
	signatures := make(map[string]struct{})
	for _, schedule := range got {
		require.Len(t, schedule.Sections, 2)
		signatures[schedule.Signature] = struct{}{}
	}
	assert.Contains(t, signatures, "CMSC131=0101|MATH140=0102")
	assert.Contains(t, signatures, "CMSC131=0102|MATH140=0101")
	assert.Contains(t, signatures, "CMSC131=0102|MATH140=0102")
}

func TestSearchMatchesBruteForce(t *testing.T) {
	// A denser instance cross-checked against plain nested enumeration.
	domains := models.Domain{
		"A": {
			mkSection("A", "1", 0, mkMeeting(540, 590, models.Monday, models.Wednesday)),
			mkSection("A", "2", 0, mkMeeting(600, 650, models.Monday, models.Wednesday)),
			mkSection("A", "3", 0, mkMeeting(540, 615, models.Tuesday, models.Thursday)),
		},
		"B": {
			mkSection("B", "1", 0, mkMeeting(560, 610, models.Monday)),
			mkSection("B", "2", 0, mkMeeting(660, 710, models.Wednesday)),
		},
		"C": {
			mkSection("C", "1", 0, mkMeeting(540, 590, models.Friday)),
			mkSection("C", "2", 0, mkMeeting(560, 610, models.Tuesday)),
		},
	}
	courses := []string{"A", "B", "C"}

	want := make(map[string]struct{})
	for _, a := range domains["A"] {
		for _, b := range domains["B"] {
			for _, c := range domains["C"] {
				if Overlaps(a, b) || Overlaps(a, c) || Overlaps(b, c) {
					continue
				}
				want[models.ScheduleSignature(map[string]models.Section{"A": a, "B": b, "C": c})] = struct{}{}
			}
		}
	}

	got := Search(courses, domains)
	require.Len(t, got, len(want))
	for _, schedule := range got {
		assert.Contains(t, want, schedule.Signature)
	}
}

func TestSearchDeterministic(t *testing.T) {
	domains := models.Domain{
		"A": {
			mkSection("A", "1", 0, mkMeeting(540, 590, models.Monday)),
			mkSection("A", "2", 0, mkMeeting(600, 650, models.Monday)),
		},
		"B": {
			mkSection("B", "1", 0, mkMeeting(700, 750, models.Monday)),
			mkSection("B", "2", 0, mkMeeting(760, 810, models.Monday)),
		},
	}
	courses := []string{"A", "B"}

	first := Search(courses, domains)
	for i := 0; i < 5; i++ {
		again := Search(courses, domains)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].Signature, again[j].Signature)
		}
	}
}

func TestSearchNoFeasibleCombination(t *testing.T) {
	clash := mkMeeting(600, 650, models.Monday)
	domains := models.Domain{
		"A": {mkSection("A", "1", 0, clash)},
		"B": {mkSection("B", "1", 0, clash)},
	}

	got := Search([]string{"A", "B"}, domains)
	assert.Empty(t, got)
}

func TestSearchSingleCourse(t *testing.T) {
	domains := models.Domain{
		"A": {
			mkSection("A", "1", 2.5, mkMeeting(600, 650, models.Monday)),
			mkSection("A", "2", 4.0, mkMeeting(600, 650, models.Monday)),
		},
	}

	got := Search([]string{"A"}, domains)
	require.Len(t, got, 2, "sections of one course never conflict with each other")
	assert.Equal(t, 2.5, got[0].QualityWeight)
	assert.Equal(t, 4.0, got[1].QualityWeight)
}

func TestSearchQualityWeightIsMeanOfSections(t *testing.T) {
	domains := models.Domain{
		"A": {mkSection("A", "1", 3.0, mkMeeting(540, 590, models.Monday))},
		"B": {mkSection("B", "1", 4.5, mkMeeting(600, 650, models.Monday))},
		"C": {mkSection("C", "1", 0, mkMeeting(700, 750, models.Monday))},
	}

	got := Search([]string{"A", "B", "C"}, domains)
	require.Len(t, got, 1)
	assert.InDelta(t, 2.5, got[0].QualityWeight, 1e-9)
}

func TestRankAscendingAndDescending(t *testing.T) {
	schedules := []models.Schedule{
		{Signature: "hi", QualityWeight: 4.2},
		{Signature: "lo", QualityWeight: 1.1},
		{Signature: "mid", QualityWeight: 3.3},
	}

	asc := Rank(schedules, RankAscending)
	require.Len(t, asc, 3)
	assert.Equal(t, "lo", asc[0].Signature)
	assert.Equal(t, "mid", asc[1].Signature)
	assert.Equal(t, "hi", asc[2].Signature)

	desc := Rank(schedules, RankDescending)
	assert.Equal(t, "hi", desc[0].Signature)
	assert.Equal(t, "lo", desc[2].Signature)

	// Input order is untouched.
	assert.Equal(t, "hi", schedules[0].Signature)
}

func TestParseRankOrder(t *testing.T) {
	assert.Equal(t, RankAscending, ParseRankOrder(""))
	assert.Equal(t, RankAscending, ParseRankOrder("asc"))
	assert.Equal(t, RankAscending, ParseRankOrder("ascending"))
	assert.Equal(t, RankDescending, ParseRankOrder("desc"))
	assert.Equal(t, RankDescending, ParseRankOrder("descending"))
	assert.Equal(t, RankDescending, ParseRankOrder(" DESC "))
	assert.Equal(t, RankAscending, ParseRankOrder("descendig"), "unrecognised values fall back to ascending")
}

func TestRankAcceptsLongDirectionSpelling(t *testing.T) {
	schedules := []models.Schedule{
		{Signature: "lo", QualityWeight: 1.0},
		{Signature: "hi", QualityWeight: 5.0},
	}

	ranked := Rank(schedules, RankOrder("descending"))
	require.Len(t, ranked, 2)
	assert.Equal(t, "hi", ranked[0].Signature)

	ranked = Rank(schedules, RankOrder("ascending"))
	assert.Equal(t, "lo", ranked[0].Signature)
}

func TestRankStableOnTies(t *testing.T) {
	schedules := []models.Schedule{
		{Signature: "first", QualityWeight: 2.0},
		{Signature: "second", QualityWeight: 2.0},
		{Signature: "third", QualityWeight: 2.0},
	}

	ranked := Rank(schedules, RankAscending)
	assert.Equal(t, "first", ranked[0].Signature)
	assert.Equal(t, "second", ranked[1].Signature)
	assert.Equal(t, "third", ranked[2].Signature)
}
