package assessment

import "time"

// ItemTypeOpenAssessment is the block type all items handled here carry.
const ItemTypeOpenAssessment = "openassessment"

type (
	// StudentItem identifies one student's work on one assignment. It is the
	// key for every per-student operation and is immutable once built for a
	// request.
	StudentItem struct {
		CourseID  string `json:"course_id"`
		ItemID    string `json:"item_id"`
		StudentID string `json:"student_id"`
		ItemType  string `json:"item_type"`
	}

	// Answer is a student's response payload. Either or both fields may be
	// set; FileKey references an uploaded file in the file store.
	Answer struct {
		Text    string `json:"text,omitempty"`
		FileKey string `json:"file_key,omitempty"`
	}

	// Submission is owned by the submission store; read-only here.
	Submission struct {
		UUID          string      `json:"uuid"`
		StudentItem   StudentItem `json:"student_item"`
		AttemptNumber int         `json:"attempt_number"`
		SubmittedAt   time.Time   `json:"submitted_at"`
		CreatedAt     time.Time   `json:"created_at"`
		Answer        Answer      `json:"answer"`
	}
)

type (
	Option struct {
		Name   string `json:"name"`
		Label  string `json:"label,omitempty"`
		Points int    `json:"points"`
	}

	// Criterion is one row of the rubric. TotalValue is presentation-only:
	// it stays unset until at least one assessment exists, then carries the
	// max achievable score for the criterion.
	Criterion struct {
		Name       string   `json:"name"`
		Label      string   `json:"label,omitempty"`
		Prompt     string   `json:"prompt,omitempty"`
		Options    []Option `json:"options"`
		TotalValue *int     `json:"total_value,omitempty"`
	}

	Rubric struct {
		Prompt   string      `json:"prompt,omitempty"`
		Criteria []Criterion `json:"criteria"`
	}
)

// WithLabels returns a deep copy of the rubric whose criterion and option
// labels fall back to their names when unset. Staff views always render the
// labelled form.
func (r Rubric) WithLabels() Rubric {
	cp := Rubric{Prompt: r.Prompt, Criteria: make([]Criterion, len(r.Criteria))}
	for i, crit := range r.Criteria {
		c := crit
		if c.Label == "" {
			c.Label = c.Name
		}
		c.Options = make([]Option, len(crit.Options))
		for j, opt := range crit.Options {
			o := opt
			if o.Label == "" {
				o.Label = o.Name
			}
			c.Options[j] = o
		}
		c.TotalValue = nil
		cp.Criteria[i] = c
	}
	return cp
}

// MaxScores computes the max achievable points per criterion name.
func (r Rubric) MaxScores() map[string]int {
	maxScores := make(map[string]int, len(r.Criteria))
	for _, crit := range r.Criteria {
		var max int
		for _, opt := range crit.Options {
			if opt.Points > max {
				max = opt.Points
			}
		}
		maxScores[crit.Name] = max
	}
	return maxScores
}

type (
	// AssessmentPart records the option a scorer picked for one criterion.
	AssessmentPart struct {
		CriterionName string `json:"criterion_name"`
		OptionName    string `json:"option_name"`
		Points        int    `json:"points"`
		Feedback      string `json:"feedback,omitempty"`
	}

	// Assessment is one scorer's evaluation of a submission, whatever the
	// strategy (peer, self or example-based).
	Assessment struct {
		SubmissionUUID string           `json:"submission_uuid"`
		ScorerID       string           `json:"scorer_id,omitempty"`
		ScoreType      Step             `json:"score_type"`
		Parts          []AssessmentPart `json:"parts"`
		PointsEarned   int              `json:"points_earned"`
		PointsPossible int              `json:"points_possible"`
		Feedback       string           `json:"feedback,omitempty"`
		Scored         bool             `json:"scored"`
		ScoredAt       time.Time        `json:"scored_at"`
	}

	// Score is the student's current aggregate score for the item, as used to
	// seed the staff override form.
	Score struct {
		PointsEarned   int       `json:"points_earned"`
		PointsPossible int       `json:"points_possible"`
		CreatedAt      time.Time `json:"created_at"`
	}

	// OverrideResult is the peer scoring subsystem's verdict on a staff score
	// override, passed through to the caller unmodified.
	OverrideResult struct {
		Success bool   `json:"success"`
		Msg     string `json:"msg"`
	}
)

type (
	// TrainingExample is a staff-graded sample answer used to train
	// example-based classifiers. OptionsSelected maps criterion name to the
	// chosen option name.
	TrainingExample struct {
		Answer          string            `json:"answer"`
		OptionsSelected map[string]string `json:"options_selected"`
	}

	// ClassifierSetInfo describes the trained model for an
	// (algorithm, course, item) triple; its existence implies training has
	// completed at least once.
	ClassifierSetInfo struct {
		AlgorithmID string    `json:"algorithm_id"`
		CourseID    string    `json:"course_id"`
		ItemID      string    `json:"item_id"`
		CreatedAt   time.Time `json:"created_at"`
	}

	// TrackChanges is a peer reviewer's edited copy of the essay they
	// assessed, kept alongside their assessment of it.
	TrackChanges struct {
		OwnerSubmissionUUID string `json:"owner_submission_uuid"`
		ScorerID            string `json:"scorer_id"`
		EditedContent       string `json:"edited_content"`
	}
)

type (
	// StepConfig is one configured assessment step of an item. Zero
	// Start/Due mean the step inherits the item's submission window bounds.
	StepConfig struct {
		Step           Step              `json:"step"`
		Start          time.Time         `json:"start,omitempty"`
		Due            time.Time         `json:"due,omitempty"`
		MustGrade      int               `json:"must_grade,omitempty"`
		MustBeGradedBy int               `json:"must_be_graded_by,omitempty"`
		AlgorithmID    string            `json:"algorithm_id,omitempty"`
		Examples       []TrainingExample `json:"examples,omitempty"`
	}

	// Item is the assignment definition as authored in the LMS; owned by the
	// item store, read-only here.
	Item struct {
		CourseID        string       `json:"course_id"`
		ItemID          string       `json:"item_id"`
		Title           string       `json:"title"`
		Prompt          string       `json:"prompt"`
		Rubric          Rubric       `json:"rubric"`
		Steps           []StepConfig `json:"steps"`
		SubmissionStart time.Time    `json:"submission_start,omitempty"`
		SubmissionDue   time.Time    `json:"submission_due,omitempty"`
		AllowLatex      bool         `json:"allow_latex"`
	}
)

// ConfiguredSteps lists the item's assessment steps in authored order.
func (it Item) ConfiguredSteps() Steps {
	steps := make(Steps, len(it.Steps))
	for i, sc := range it.Steps {
		steps[i] = sc.Step
	}
	return steps
}

// StepConfigFor returns the configuration of step, if the item has it.
func (it Item) StepConfigFor(step Step) (StepConfig, bool) {
	for _, sc := range it.Steps {
		if sc.Step == step {
			return sc, true
		}
	}
	return StepConfig{}, false
}

// ExampleBasedConfig returns the example-based-assessment configuration iff
// it is complete enough to train on: an algorithm id and a non-empty example
// set.
func (it Item) ExampleBasedConfig() (StepConfig, bool) {
	sc, ok := it.StepConfigFor(StepExampleBased)
	if !ok || sc.AlgorithmID == "" || len(sc.Examples) == 0 {
		return StepConfig{}, false
	}
	return sc, true
}

// StudentItem builds the identity tuple for studentID against this item.
func (it Item) StudentItem(studentID string) StudentItem {
	return StudentItem{
		CourseID:  it.CourseID,
		ItemID:    it.ItemID,
		StudentID: studentID,
		ItemType:  ItemTypeOpenAssessment,
	}
}
