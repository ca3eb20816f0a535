package assessment

import "time"

// Sentinel bounds meaning "unbounded". A step with no configured window is
// open from DistantPast to DistantFuture; presentation layers render these
// as absent dates, never as timestamps.
var (
	DistantPast   = time.Time{}
	DistantFuture = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// StepWindow is the effective schedule of one step at a point in time.
// Start and Due always carry a value; the sentinels stand in for missing
// bounds.
type StepWindow struct {
	Step   Step      `json:"step"`
	Closed bool      `json:"closed"`
	Start  time.Time `json:"start"`
	Due    time.Time `json:"due"`
}

// DeadlineResolver yields the schedule state of an item's steps.
type DeadlineResolver interface {
	// StepWindow resolves the window of step at now. StepSubmission means
	// the item's submission window. Course staff are never closed out; pass
	// courseStaff=false to get the window as a student sees it.
	StepWindow(item Item, step Step, courseStaff bool, now time.Time) StepWindow
}

// ScheduleResolver derives step windows from the item's authored schedule:
// a step's start falls back to the submission start when unset, and its due
// date is unbounded when unset.
type ScheduleResolver struct{}

var _ DeadlineResolver = (*ScheduleResolver)(nil)

func (ScheduleResolver) StepWindow(item Item, step Step, courseStaff bool, now time.Time) StepWindow {
	if courseStaff {
		return StepWindow{Step: step, Start: DistantPast, Due: DistantFuture}
	}

	start, due := DistantPast, DistantFuture
	if step == StepSubmission {
		if !item.SubmissionStart.IsZero() {
			start = item.SubmissionStart
		}
		if !item.SubmissionDue.IsZero() {
			due = item.SubmissionDue
		}
	} else {
		sc, _ := item.StepConfigFor(step)
		switch {
		case !sc.Start.IsZero():
			start = sc.Start
		case !item.SubmissionStart.IsZero():
			start = item.SubmissionStart
		}
		if !sc.Due.IsZero() {
			due = sc.Due
		}
	}

	return StepWindow{
		Step:   step,
		Closed: now.Before(start) || !now.Before(due),
		Start:  start,
		Due:    due,
	}
}
