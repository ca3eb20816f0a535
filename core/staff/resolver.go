package staff

import (
	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core"
	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

var (
	// ErrMissingIdentity means the request carries no course/item location.
	// An empty student id is NOT this error: staff panels render before a
	// student is chosen.
	ErrMissingIdentity = errors.New("course and item identity required")
)

// ResolveStudentItem derives the identity tuple all per-student operations
// key on. Pure; the tuple is immutable for the rest of the request.
func ResolveStudentItem(courseID, itemID, studentID string) (assessment.StudentItem, error) {
	courseID = core.CleanString(courseID)
	itemID = core.CleanString(itemID)
	if courseID == "" || itemID == "" {
		return assessment.StudentItem{}, ErrMissingIdentity
	}
	return assessment.StudentItem{
		CourseID:  courseID,
		ItemID:    itemID,
		StudentID: core.CleanString(studentID),
		ItemType:  assessment.ItemTypeOpenAssessment,
	}, nil
}
