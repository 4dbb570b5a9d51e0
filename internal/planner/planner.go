// Package planner turns a learner's subjects into a day-by-day plan of
// study and revision sessions. It is a pure computation: no I/O, no
// goroutines, no state shared between invocations. Persistence of the
// resulting plan is the caller's job.
package planner

import (
	"fmt"
	"math"
	"time"
)

// ItemType tags a plan entry as a study chunk or a revision follow-up.
type ItemType string

const (
	ItemStudy    ItemType = "study"
	ItemRevision ItemType = "revision"
)

const (
	minDifficulty = 1
	maxDifficulty = 5
)

// Subject is an immutable input to a scheduling run.
type Subject struct {
	ID             string
	Name           string
	Difficulty     int
	ExamDate       time.Time
	EstimatedHours float64
}

// Item is one scheduled session emitted by BuildPlan.
type Item struct {
	Date        time.Time
	SubjectID   string
	SubjectName string
	Hours       float64
	Type        ItemType
}

// Options governs a scheduling run. Zero values fall back to defaults.
type Options struct {
	// HorizonDays bounds the number of simulated days (default 30).
	HorizonDays int
	// MaxDailyHours caps study hours per simulated day (default 6).
	// Revision sessions do not count against the cap.
	MaxDailyHours float64
	// MaxChunkHours caps a single study chunk (default 2).
	MaxChunkHours float64
	// RevisionOffsets are the day offsets of follow-up revision
	// sessions after every study chunk (default +1, +3, +7).
	RevisionOffsets []int
	// RevisionHours is the fixed length of one revision session
	// (default 0.5).
	RevisionHours float64
}

// DefaultOptions returns the standard planner tuning.
func DefaultOptions() Options {
	return Options{
		HorizonDays:     30,
		MaxDailyHours:   6,
		MaxChunkHours:   2,
		RevisionOffsets: []int{1, 3, 7},
		RevisionHours:   0.5,
	}
}

// InvalidSubjectError signals a subject that would corrupt allocation
// arithmetic (difficulty outside [1,5] or negative workload).
type InvalidSubjectError struct {
	SubjectID string
	Reason    string
}

func (e *InvalidSubjectError) Error() string {
	return fmt.Sprintf("invalid subject %s: %s", e.SubjectID, e.Reason)
}

// InvalidConfigurationError signals unusable planner options.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid planner configuration: %s", e.Reason)
}

// subjectState carries the remaining workload for one candidate entry.
// Duplicated subject ids stay independent entries: state is per slice
// position, never merged by id.
type subjectState struct {
	subject   Subject
	remaining float64
}

// BuildPlan allocates study time across subjects over a fixed horizon and
// inserts spaced revision sessions after every study chunk.
//
// Each simulated day rebuilds a fresh urgency heap from the remaining
// workloads, so a day's allocation depends only on the workload snapshot
// at its start. Subjects whose exam date has already passed stay eligible:
// days-until-exam clamps to 1 instead of excluding them.
func BuildPlan(subjects []Subject, startDate time.Time, opts Options) ([]Item, error) {
	opts = withDefaults(opts)
	if err := validate(subjects, opts); err != nil {
		return nil, err
	}

	ordered := OrderSubjects(subjects)
	states := make([]*subjectState, len(ordered))
	for i, subject := range ordered {
		states[i] = &subjectState{subject: subject, remaining: subject.EstimatedHours}
	}

	start := dateOnly(startDate)
	items := make([]Item, 0, len(states)*opts.HorizonDays/2)

	for day := 0; day < opts.HorizonDays; day++ {
		current := start.AddDate(0, 0, day)

		queue := &MinHeap[*subjectState]{}
		for _, state := range states {
			if state.remaining <= 0 {
				continue
			}
			queue.Insert(urgency(state.subject, current), state)
		}

		allocated := 0.0
		for allocated < opts.MaxDailyHours {
			state, ok := queue.ExtractMin()
			if !ok {
				break
			}

			chunk := math.Min(opts.MaxChunkHours, math.Min(state.remaining, opts.MaxDailyHours-allocated))
			if chunk <= 0 {
				continue
			}

			items = append(items, Item{
				Date:        current,
				SubjectID:   state.subject.ID,
				SubjectName: state.subject.Name,
				Hours:       chunk,
				Type:        ItemStudy,
			})
			state.remaining -= chunk
			allocated += chunk

			items = append(items, revisionsFor(state.subject, current, opts)...)
		}
	}

	return items, nil
}

// revisionsFor emits the spaced follow-ups for one study chunk. A session
// landing on or after the exam date is suppressed. Overlapping windows
// from study chunks on nearby days emit independent duplicates.
func revisionsFor(subject Subject, studyDate time.Time, opts Options) []Item {
	exam := dateOnly(subject.ExamDate)
	var items []Item
	for _, offset := range opts.RevisionOffsets {
		target := studyDate.AddDate(0, 0, offset)
		if !target.Before(exam) {
			continue
		}
		items = append(items, Item{
			Date:        target,
			SubjectID:   subject.ID,
			SubjectName: subject.Name,
			Hours:       opts.RevisionHours,
			Type:        ItemRevision,
		})
	}
	return items
}

// urgency derives the priority key for one subject on one day; lower is
// scheduled first. Days-until-exam floors at 1 so a passed exam keeps the
// subject eligible instead of dividing by zero or going negative.
func urgency(subject Subject, current time.Time) float64 {
	exam := dateOnly(subject.ExamDate)
	daysUntil := int(math.Ceil(exam.Sub(current).Hours() / 24))
	if daysUntil < 1 {
		daysUntil = 1
	}
	return float64(daysUntil) / float64(subject.Difficulty)
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.HorizonDays == 0 {
		opts.HorizonDays = def.HorizonDays
	}
	if opts.MaxDailyHours == 0 {
		opts.MaxDailyHours = def.MaxDailyHours
	}
	if opts.MaxChunkHours == 0 {
		opts.MaxChunkHours = def.MaxChunkHours
	}
	if opts.RevisionOffsets == nil {
		opts.RevisionOffsets = def.RevisionOffsets
	}
	if opts.RevisionHours == 0 {
		opts.RevisionHours = def.RevisionHours
	}
	return opts
}

func validate(subjects []Subject, opts Options) error {
	if opts.HorizonDays < 0 {
		return &InvalidConfigurationError{Reason: "horizon days must not be negative"}
	}
	if opts.MaxDailyHours < 0 {
		return &InvalidConfigurationError{Reason: "max daily hours must not be negative"}
	}
	if opts.MaxChunkHours < 0 {
		return &InvalidConfigurationError{Reason: "max chunk hours must not be negative"}
	}
	if opts.RevisionHours < 0 {
		return &InvalidConfigurationError{Reason: "revision hours must not be negative"}
	}
	for _, offset := range opts.RevisionOffsets {
		if offset <= 0 {
			return &InvalidConfigurationError{Reason: "revision offsets must be positive"}
		}
	}
	for _, subject := range subjects {
		if subject.Difficulty < minDifficulty || subject.Difficulty > maxDifficulty {
			return &InvalidSubjectError{SubjectID: subject.ID, Reason: fmt.Sprintf("difficulty must be between %d and %d", minDifficulty, maxDifficulty)}
		}
		if subject.EstimatedHours < 0 {
			return &InvalidSubjectError{SubjectID: subject.ID, Reason: "estimated hours must not be negative"}
		}
	}
	return nil
}

// dateOnly discards the intra-day component so subjects whose exam
// timestamps carry different times of day compare on calendar dates only.
func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
