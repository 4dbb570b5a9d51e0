package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planStart = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func studyHoursByDate(items []Item) map[time.Time]float64 {
	totals := make(map[time.Time]float64)
	for _, item := range items {
		if item.Type == ItemStudy {
			totals[item.Date] += item.Hours
		}
	}
	return totals
}

func studyHoursBySubject(items []Item) map[string]float64 {
	totals := make(map[string]float64)
	for _, item := range items {
		if item.Type == ItemStudy {
			totals[item.SubjectID] += item.Hours
		}
	}
	return totals
}

func TestBuildPlanEmptySubjects(t *testing.T) {
	items, err := BuildPlan(nil, planStart, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBuildPlanSingleSubject(t *testing.T) {
	subject := Subject{
		ID:             "math",
		Name:           "Mathematics",
		Difficulty:     5,
		ExamDate:       planStart.AddDate(0, 0, 10),
		EstimatedHours: 4,
	}

	items, err := BuildPlan([]Subject{subject}, planStart, DefaultOptions())
	require.NoError(t, err)

	var dayZero []Item
	for _, item := range items {
		if item.Type == ItemStudy && item.Date.Equal(planStart) {
			dayZero = append(dayZero, item)
		}
	}
	require.Len(t, dayZero, 1)
	assert.Equal(t, 2.0, dayZero[0].Hours)
	assert.Equal(t, "math", dayZero[0].SubjectID)
	assert.Equal(t, "Mathematics", dayZero[0].SubjectName)

	// The first chunk spawns revisions at +1, +3 and +7; all three fall
	// before the exam on day 10.
	var revisionDates []time.Time
	for _, item := range items {
		if item.Type == ItemRevision {
			revisionDates = append(revisionDates, item.Date)
		}
	}
	assert.Contains(t, revisionDates, planStart.AddDate(0, 0, 1))
	assert.Contains(t, revisionDates, planStart.AddDate(0, 0, 3))
	assert.Contains(t, revisionDates, planStart.AddDate(0, 0, 7))

	// Day 1 drains the remaining two hours.
	totals := studyHoursBySubject(items)
	assert.Equal(t, 4.0, totals["math"])
	byDate := studyHoursByDate(items)
	assert.Equal(t, 2.0, byDate[planStart.AddDate(0, 0, 1)])
}

func TestBuildPlanPrioritizesHarderSubject(t *testing.T) {
	examDate := planStart.AddDate(0, 0, 14)
	subjects := []Subject{
		{ID: "easy", Name: "Geography", Difficulty: 1, ExamDate: examDate, EstimatedHours: 10},
		{ID: "hard", Name: "Physics", Difficulty: 5, ExamDate: examDate, EstimatedHours: 10},
	}

	items, err := BuildPlan(subjects, planStart, DefaultOptions())
	require.NoError(t, err)

	// On every day the harder subject's chunk is emitted before the
	// easier subject sees any time.
	seenByDate := make(map[time.Time][]string)
	for _, item := range items {
		if item.Type == ItemStudy {
			seenByDate[item.Date] = append(seenByDate[item.Date], item.SubjectID)
		}
	}
	require.NotEmpty(t, seenByDate)
	for day, order := range seenByDate {
		require.NotEmpty(t, order, "day %s has no study items", day)
		assert.Equal(t, "hard", order[0], "day %s should start with the harder subject", day)
	}
}

func TestBuildPlanPastExamStillScheduled(t *testing.T) {
	subject := Subject{
		ID:             "latin",
		Name:           "Latin",
		Difficulty:     2,
		ExamDate:       planStart.AddDate(0, 0, -3),
		EstimatedHours: 4,
	}

	items, err := BuildPlan([]Subject{subject}, planStart, DefaultOptions())
	require.NoError(t, err)

	// Days-until-exam clamps to 1, so the subject keeps receiving study
	// chunks past its exam date instead of being dropped.
	totals := studyHoursBySubject(items)
	assert.Equal(t, 4.0, totals["latin"])

	// No revision target can precede an exam that already passed.
	for _, item := range items {
		assert.NotEqual(t, ItemRevision, item.Type)
	}
}

func TestBuildPlanCapacityInvariant(t *testing.T) {
	examDate := planStart.AddDate(0, 0, 20)
	subjects := []Subject{
		{ID: "s1", Difficulty: 5, ExamDate: examDate, EstimatedHours: 40},
		{ID: "s2", Difficulty: 4, ExamDate: examDate, EstimatedHours: 40},
		{ID: "s3", Difficulty: 3, ExamDate: examDate, EstimatedHours: 40},
		{ID: "s4", Difficulty: 2, ExamDate: examDate, EstimatedHours: 40},
		{ID: "s5", Difficulty: 1, ExamDate: examDate, EstimatedHours: 40},
	}

	opts := DefaultOptions()
	items, err := BuildPlan(subjects, planStart, opts)
	require.NoError(t, err)

	for day, hours := range studyHoursByDate(items) {
		assert.LessOrEqual(t, hours, opts.MaxDailyHours, "study hours on %s exceed the daily cap", day)
	}

	// Revision load is uncapped and must not be counted against the cap:
	// with five competing subjects some days carry study + revision hours
	// beyond MaxDailyHours in total.
	totalByDate := make(map[time.Time]float64)
	for _, item := range items {
		totalByDate[item.Date] += item.Hours
	}
	exceeded := false
	for _, hours := range totalByDate {
		if hours > opts.MaxDailyHours {
			exceeded = true
			break
		}
	}
	assert.True(t, exceeded, "expected at least one day where revisions push total hours past the study cap")
}

func TestBuildPlanNeverExceedsEstimatedHours(t *testing.T) {
	subjects := []Subject{
		{ID: "small", Difficulty: 4, ExamDate: planStart.AddDate(0, 0, 25), EstimatedHours: 3},
		{ID: "large", Difficulty: 3, ExamDate: planStart.AddDate(0, 0, 25), EstimatedHours: 500},
	}

	opts := DefaultOptions()
	items, err := BuildPlan(subjects, planStart, opts)
	require.NoError(t, err)

	totals := studyHoursBySubject(items)
	assert.Equal(t, 3.0, totals["small"])

	// The large subject cannot finish inside the horizon; it is bounded
	// by horizon times daily capacity, not by its estimate.
	assert.LessOrEqual(t, totals["large"], float64(opts.HorizonDays)*opts.MaxDailyHours)
	assert.Less(t, totals["large"], 500.0)
}

func TestBuildPlanRevisionCutoff(t *testing.T) {
	subjects := []Subject{
		{ID: "near", Difficulty: 3, ExamDate: planStart.AddDate(0, 0, 2), EstimatedHours: 8},
		{ID: "far", Difficulty: 3, ExamDate: planStart.AddDate(0, 0, 25), EstimatedHours: 8},
	}

	items, err := BuildPlan(subjects, planStart, DefaultOptions())
	require.NoError(t, err)

	examDates := map[string]time.Time{
		"near": planStart.AddDate(0, 0, 2),
		"far":  planStart.AddDate(0, 0, 25),
	}
	for _, item := range items {
		if item.Type != ItemRevision {
			continue
		}
		assert.True(t, item.Date.Before(examDates[item.SubjectID]),
			"revision for %s on %s is not before its exam", item.SubjectID, item.Date)
	}
}

func TestBuildPlanDeterminism(t *testing.T) {
	subjects := []Subject{
		{ID: "a", Name: "A", Difficulty: 5, ExamDate: planStart.AddDate(0, 0, 8), EstimatedHours: 12},
		{ID: "b", Name: "B", Difficulty: 2, ExamDate: planStart.AddDate(0, 0, 15), EstimatedHours: 9},
		{ID: "c", Name: "C", Difficulty: 4, ExamDate: planStart.AddDate(0, 0, 22), EstimatedHours: 20},
	}

	first, err := BuildPlan(subjects, planStart, DefaultOptions())
	require.NoError(t, err)
	second, err := BuildPlan(subjects, planStart, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildPlanRevisionDuplicatesKept(t *testing.T) {
	// Six hours across days 0-2 produce revision targets {1,3,7},
	// {2,4,8} and {3,5,9}: day 3 is hit twice. Duplicates are emitted
	// independently, never merged.
	subject := Subject{
		ID:             "chem",
		Name:           "Chemistry",
		Difficulty:     3,
		ExamDate:       planStart.AddDate(0, 0, 20),
		EstimatedHours: 6,
	}

	items, err := BuildPlan([]Subject{subject}, planStart, DefaultOptions())
	require.NoError(t, err)

	dayThree := planStart.AddDate(0, 0, 3)
	count := 0
	for _, item := range items {
		if item.Type == ItemRevision && item.Date.Equal(dayThree) {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestBuildPlanDuplicateSubjectIDsStayIndependent(t *testing.T) {
	examDate := planStart.AddDate(0, 0, 15)
	subjects := []Subject{
		{ID: "dup", Name: "Dup", Difficulty: 3, ExamDate: examDate, EstimatedHours: 2},
		{ID: "dup", Name: "Dup", Difficulty: 3, ExamDate: examDate, EstimatedHours: 2},
	}

	items, err := BuildPlan(subjects, planStart, DefaultOptions())
	require.NoError(t, err)

	totals := studyHoursBySubject(items)
	assert.Equal(t, 4.0, totals["dup"])
}

func TestBuildPlanStartDateTimeOfDayDiscarded(t *testing.T) {
	subject := Subject{
		ID:             "bio",
		Difficulty:     3,
		ExamDate:       time.Date(2026, time.March, 12, 9, 30, 0, 0, time.UTC),
		EstimatedHours: 2,
	}

	lateEvening := time.Date(2026, time.March, 2, 23, 45, 0, 0, time.UTC)
	items, err := BuildPlan([]Subject{subject}, lateEvening, DefaultOptions())
	require.NoError(t, err)

	require.NotEmpty(t, items)
	assert.Equal(t, planStart, items[0].Date)
}

func TestBuildPlanRejectsInvalidDifficulty(t *testing.T) {
	for _, difficulty := range []int{0, -1, 6} {
		_, err := BuildPlan([]Subject{{ID: "bad", Difficulty: difficulty, ExamDate: planStart.AddDate(0, 0, 5), EstimatedHours: 1}}, planStart, DefaultOptions())
		require.Error(t, err)
		var subjectErr *InvalidSubjectError
		assert.True(t, errors.As(err, &subjectErr), "difficulty %d should yield InvalidSubjectError", difficulty)
		assert.Equal(t, "bad", subjectErr.SubjectID)
	}
}

func TestBuildPlanRejectsNegativeEstimatedHours(t *testing.T) {
	_, err := BuildPlan([]Subject{{ID: "neg", Difficulty: 3, ExamDate: planStart.AddDate(0, 0, 5), EstimatedHours: -1}}, planStart, DefaultOptions())
	require.Error(t, err)
	var subjectErr *InvalidSubjectError
	assert.True(t, errors.As(err, &subjectErr))
}

func TestBuildPlanRejectsNegativeConfiguration(t *testing.T) {
	cases := []Options{
		{MaxDailyHours: -1},
		{HorizonDays: -5},
		{MaxChunkHours: -2},
		{RevisionHours: -0.5},
		{RevisionOffsets: []int{0}},
	}
	for _, opts := range cases {
		_, err := BuildPlan([]Subject{{ID: "s", Difficulty: 3, ExamDate: planStart.AddDate(0, 0, 5), EstimatedHours: 1}}, planStart, opts)
		require.Error(t, err)
		var cfgErr *InvalidConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
	}
}
