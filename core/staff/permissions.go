package staff

import (
	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core"
)

// Operation is a staff-only entry point guarded by the permission gate.
type Operation string

const (
	OpStaffInfo        Operation = "staff_info"
	OpStudentInfo      Operation = "student_info"
	OpScoreOverride    Operation = "peer_score_override"
	OpScheduleTraining Operation = "schedule_training"
	OpRescheduleTasks  Operation = "reschedule_unfinished_tasks"
)

// Tier is the capability level an operation requires.
type Tier int

const (
	// TierCourseStaff covers read panels and score overrides.
	TierCourseStaff Tier = iota
	// TierGlobalAdmin covers AI training job control.
	TierGlobalAdmin
)

// Caller carries the identity and mode every staff operation is evaluated
// against. It is built once per request from the host's auth claims; nothing
// here is read from ambient state.
type Caller struct {
	Username      string `json:"username"`
	IsCourseStaff bool   `json:"is_course_staff"`
	IsAdmin       bool   `json:"is_admin"`
	// IsPreview is set when staff view the assignment as a student would
	// (studio preview); it denies every staff operation regardless of role.
	IsPreview bool `json:"is_preview"`
}

func (c Caller) hasTier(tier Tier) bool {
	switch tier {
	case TierGlobalAdmin:
		return c.IsAdmin
	default:
		// global admins hold course-staff rights everywhere
		return c.IsCourseStaff || c.IsAdmin
	}
}

// requirement pins an operation to its capability tier and the exact denial
// text surfaced to the caller. The messages are contractual; do not reword.
type requirement struct {
	tier Tier
	msg  string
}

var requirements = map[Operation]requirement{
	OpStaffInfo:        {TierCourseStaff, "You do not have permission to access staff information"},
	OpStudentInfo:      {TierCourseStaff, "You do not have permission to access student information."},
	OpScoreOverride:    {TierCourseStaff, "You do not have permission to access student information."},
	OpScheduleTraining: {TierGlobalAdmin, "You do not have permission to schedule training"},
	OpRescheduleTasks:  {TierGlobalAdmin, "You do not have permission to reschedule tasks."},
}

// Authorize is the hard precondition of every staff operation: it runs before
// any collaborator is consulted and has no side effects. Preview mode denies
// unconditionally so staff previewing the student experience see exactly what
// a student sees.
func Authorize(op Operation, caller Caller) error {
	req, ok := requirements[op]
	if !ok {
		return errors.Errorf("unknown staff operation %q", op)
	}
	if caller.IsPreview || !caller.hasTier(req.tier) {
		return core.NewPermissionDeniedError(req.msg)
	}
	return nil
}
