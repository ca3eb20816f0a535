package staff

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/stvstnfrd/edx-ora2/core"
	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

// StatusCounts maps each queried workflow step to how many of the item's
// submissions currently sit at it. Queried steps with no submissions are
// present with a zero count, so the values always sum to the item's
// submission total.
type StatusCounts map[assessment.Step]int

// Total is the item's submission count across all steps.
func (sc StatusCounts) Total() int {
	var total int
	for _, n := range sc {
		total += n
	}
	return total
}

type (
	// StepDate is one row of the staff panel's schedule table. Start/Due are
	// nil when the corresponding bound is not configured (the resolver's
	// sentinel values are never shown to staff).
	StepDate struct {
		Step  assessment.Step `json:"step"`
		Start *time.Time      `json:"start"`
		Due   *time.Time      `json:"due"`
	}

	// StaffInfoContext is the course staff debug panel for one item.
	StaffInfoContext struct {
		ItemID                  string                        `json:"item_id"`
		StatusCounts            StatusCounts                  `json:"status_counts"`
		NumSubmissions          int                           `json:"num_submissions"`
		DisplayScheduleTraining bool                          `json:"display_schedule_training"`
		DisplayRescheduleTasks  bool                          `json:"display_reschedule_unfinished_tasks"`
		ClassifierSet           *assessment.ClassifierSetInfo `json:"classifierset,omitempty"`
		StepDates               []StepDate                    `json:"step_dates"`
		AllowLatex              bool                          `json:"allow_latex"`
	}

	// SubmissionView is a submission as the staff panel shows it: the stored
	// record plus a resolved display URL for an uploaded file, when one
	// exists and the file store could serve it.
	SubmissionView struct {
		assessment.Submission
		ImageURL string `json:"image_url,omitempty"`
	}

	// StudentInfoContext is one student's grading state across every
	// configured strategy. With no student selected (or no submission yet)
	// it is the valid empty state: nil submission, empty lists, nil scores
	// and nil problem_closed; rubric criteria are present either way.
	StudentInfoContext struct {
		Submission             *SubmissionView           `json:"submission"`
		PeerAssessments        []assessment.Assessment   `json:"peer_assessments"`
		SubmittedAssessments   []assessment.Assessment   `json:"submitted_assessments"`
		SelfAssessment         *assessment.Assessment    `json:"self_assessment"`
		ExampleBasedAssessment *assessment.Assessment    `json:"example_based_assessment"`
		RubricCriteria         []assessment.Criterion    `json:"rubric_criteria"`
		Scores                 *assessment.Score         `json:"scores"`
		ProblemClosed          *bool                     `json:"problem_closed"`
		TrackChanges           []assessment.TrackChanges `json:"track_changes,omitempty"`
	}

	// Result is the structured outcome of the JSON staff operations
	// (training scheduling and rescheduling). Contract failures live here,
	// never in an error.
	Result struct {
		Success      bool   `json:"success"`
		WorkflowUUID string `json:"workflow_uuid,omitempty"`
		Msg          string `json:"msg"`
	}
)

// OverrideRequest is the staff input of a peer score override.
type OverrideRequest struct {
	StudentID      string `json:"student_id" validate:"required"`
	PointsPossible int    `json:"points_possible" validate:"required,gt=0"`
	PointsOverride int    `json:"points_override" validate:"gte=0"`
}

func (or *OverrideRequest) Validate(validate *validator.Validate) error {
	or.StudentID = core.CleanString(or.StudentID)
	return validate.Struct(or)
}
