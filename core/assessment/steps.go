package assessment

import "github.com/pkg/errors"

// Step is a stage a student's submission progresses through. The set is
// closed; assignments configure an ordered subset between StepSubmission and
// StepDone.
type Step string

const (
	StepSubmission   Step = "submission"
	StepPeer         Step = "peer-assessment"
	StepSelf         Step = "self-assessment"
	StepExampleBased Step = "example-based-assessment"
	StepStaff        Step = "staff-assessment"
	StepDone         Step = "done"
)

var allSteps = [...]Step{StepSubmission, StepPeer, StepSelf, StepExampleBased, StepStaff, StepDone}

// StrategySteps is the fixed order in which per-strategy assessment results
// are collected for a student.
var StrategySteps = Steps{StepPeer, StepSelf, StepExampleBased}

func (s Step) Valid() bool {
	for _, step := range allSteps {
		if s == step {
			return true
		}
	}
	return false
}

func (s Step) String() string { return string(s) }

// HasDeadline reports whether students see a start/due window for this step.
// Example-based grading runs whenever classifiers are ready and has no
// student-visible schedule.
func (s Step) HasDeadline() bool { return s != StepExampleBased }

func ParseStep(s string) (Step, error) {
	if step := Step(s); step.Valid() {
		return step, nil
	}
	return "", errors.Errorf("unknown workflow step %q", s)
}

// Steps is an ordered sequence of workflow steps.
type Steps []Step

func (ss Steps) Contains(step Step) bool {
	for _, s := range ss {
		if s == step {
			return true
		}
	}
	return false
}

// StatusSteps is the step set workflow status counts are grouped by:
// the configured assessment steps bracketed by submission and done.
func StatusSteps(configured Steps) Steps {
	steps := make(Steps, 0, len(configured)+2)
	steps = append(steps, StepSubmission)
	steps = append(steps, configured...)
	steps = append(steps, StepDone)
	return steps
}

// DateSteps is the step sequence the staff panel lists deadlines for:
// submission plus every configured step that carries a student-visible window.
func DateSteps(configured Steps) Steps {
	steps := make(Steps, 0, len(configured)+1)
	steps = append(steps, StepSubmission)
	for _, s := range configured {
		if s.HasDeadline() {
			steps = append(steps, s)
		}
	}
	return steps
}

// TaskType selects which kind of unfinished AI tasks a reschedule targets.
type TaskType string

const (
	TaskTrain TaskType = "train"
	TaskGrade TaskType = "grade"
)
