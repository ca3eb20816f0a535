package assessment

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrItemNotFound       = errors.New("assessment item not found")
	ErrSubmissionNotFound = errors.New("submission not found")
)

type (
	// ItemStore serves assignment definitions authored in the LMS.
	ItemStore interface {
		GetItem(ctx context.Context, courseID, itemID string) (Item, error)
	}

	// SubmissionReader is the read boundary of the submission store.
	SubmissionReader interface {
		// Submissions returns the student's submissions for the item, most
		// recent first, at most limit entries (0 means no cap).
		Submissions(ctx context.Context, si StudentItem, limit int) ([]Submission, error)
	}

	// WorkflowReader is the read boundary of the workflow store.
	WorkflowReader interface {
		// StatusCounts returns how many of the item's submissions sit at
		// each of the given steps. Steps with no submissions may be omitted
		// from the result.
		StatusCounts(ctx context.Context, courseID, itemID string, steps Steps) (map[Step]int, error)
	}

	// PeerAPI is the read/write boundary of the peer-assessment subsystem.
	PeerAPI interface {
		// Assessments lists every peer assessment rendered against the
		// submission.
		Assessments(ctx context.Context, submissionUUID string) ([]Assessment, error)
		// SubmittedAssessments lists the assessments authored by the owner
		// of scorerSubmissionUUID, optionally restricted to scored ones.
		SubmittedAssessments(ctx context.Context, scorerSubmissionUUID string, scoredOnly bool) ([]Assessment, error)
		// RubricMaxScores returns the max achievable points per criterion
		// name for the rubric the submission was assessed under.
		RubricMaxScores(ctx context.Context, submissionUUID string) (map[string]int, error)
		// OverrideScoreData returns the student's current score bundle used
		// to seed the staff override form; nil when nothing is scored yet.
		OverrideScoreData(ctx context.Context, submissionUUID string, si StudentItem) (*Score, error)
		// ScoreOverride unconditionally replaces the student's peer score.
		// The subsystem enforces pointsOverride <= pointsPossible and
		// reports the outcome; last write wins.
		ScoreOverride(ctx context.Context, si StudentItem, pointsOverride, pointsPossible int) (OverrideResult, error)
		// TrackChanges lists reviewers' edited copies of the essay owned by
		// ownerSubmissionUUID.
		TrackChanges(ctx context.Context, ownerSubmissionUUID string) ([]TrackChanges, error)
	}

	// SelfAPI is the read boundary of the self-assessment subsystem.
	SelfAPI interface {
		// Assessment returns the student's self assessment of the
		// submission, or nil when none exists.
		Assessment(ctx context.Context, submissionUUID string) (*Assessment, error)
	}

	// AIAPI is the boundary to the example-based (ML) grading pipeline.
	// Failures it reports are *AIError.
	AIAPI interface {
		// LatestAssessment returns the most recent AI-graded assessment of
		// the submission, or nil when none exists.
		LatestAssessment(ctx context.Context, submissionUUID string) (*Assessment, error)
		// ClassifierSetInfo describes the trained classifier set for the
		// rubric/algorithm/item triple, or nil when none was trained yet.
		ClassifierSetInfo(ctx context.Context, rubric Rubric, algorithmID, courseID, itemID string) (*ClassifierSetInfo, error)
		// TrainClassifiers schedules an asynchronous training workflow and
		// returns its UUID, the only handle the caller retains.
		TrainClassifiers(ctx context.Context, rubric Rubric, examples []TrainingExample, courseID, itemID, algorithmID string) (string, error)
		// RescheduleUnfinishedTasks asks the pipeline to re-enqueue whatever
		// tasks of taskType it considers unfinished for the item.
		// Fire-and-forget: callers get no visibility into task counts.
		RescheduleUnfinishedTasks(ctx context.Context, courseID, itemID string, taskType TaskType) error
	}
)

// AIError is the typed failure reported by the AI grading pipeline. Staff
// operations convert it to a structured failure response instead of letting
// it escape.
type AIError struct {
	Msg string
	Err error
}

func NewAIError(msg string, err error) *AIError {
	return &AIError{Msg: msg, Err: err}
}

func (e *AIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func IsAIError(err error) bool {
	_, ok := errors.Cause(err).(*AIError)
	return ok
}
