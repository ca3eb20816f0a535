package testutil

import (
	"testing"
	"time"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
	dummydb "github.com/stvstnfrd/edx-ora2/storage/database/dummy"
)

// CreateSubmission stores a submission for studentID against item and places
// its workflow at step.
func CreateSubmission(
	t *testing.T,
	db *dummydb.DB,
	item assessment.Item,
	studentID, uuid string,
	answer assessment.Answer,
	step assessment.Step,
	submittedAt ...time.Time,
) assessment.Submission {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(submittedAt) > 0 {
		tstamp = submittedAt[0].UTC()
	}
	sub := assessment.Submission{
		UUID:          uuid,
		StudentItem:   item.StudentItem(studentID),
		AttemptNumber: 1,
		SubmittedAt:   tstamp,
		CreatedAt:     tstamp,
		Answer:        answer,
	}
	db.AddSubmission(sub)
	db.SetWorkflowStep(item.CourseID, item.ItemID, uuid, step)
	return sub
}
