package staff

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core"
	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

// for tests
var nowFunc = time.Now

type (
	// ServiceDeps are the collaborator boundaries a Service orchestrates.
	// All are required except Deadlines, which defaults to the item's
	// authored schedule.
	ServiceDeps struct {
		Items       assessment.ItemStore
		Submissions assessment.SubmissionReader
		Workflows   assessment.WorkflowReader
		Peer        assessment.PeerAPI
		Self        assessment.SelfAPI
		AI          assessment.AIAPI
		Files       core.FileStore
		Deadlines   assessment.DeadlineResolver
		Logger      core.Logger
	}

	// Service exposes the staff-only oversight operations. It holds no
	// mutable state of its own: every call recomputes its view from the
	// collaborators, so instances are safe for concurrent use and results
	// always reflect live state.
	Service struct {
		items       assessment.ItemStore
		submissions assessment.SubmissionReader
		workflows   assessment.WorkflowReader
		peer        assessment.PeerAPI
		self        assessment.SelfAPI
		ai          assessment.AIAPI
		files       core.FileStore
		deadlines   assessment.DeadlineResolver
		logger      core.Logger
	}
)

func NewService(deps ServiceDeps) *Service {
	if deps.Deadlines == nil {
		deps.Deadlines = assessment.ScheduleResolver{}
	}
	return &Service{
		items:       deps.Items,
		submissions: deps.Submissions,
		workflows:   deps.Workflows,
		peer:        deps.Peer,
		self:        deps.Self,
		ai:          deps.AI,
		files:       deps.Files,
		deadlines:   deps.Deadlines,
		logger:      deps.Logger,
	}
}

// getItem loads the assignment definition after resolving the location.
func (svc *Service) getItem(ctx context.Context, courseID, itemID string) (assessment.Item, error) {
	si, err := ResolveStudentItem(courseID, itemID, "")
	if err != nil {
		return assessment.Item{}, err
	}
	item, err := svc.items.GetItem(ctx, si.CourseID, si.ItemID)
	if err != nil {
		return assessment.Item{}, errors.Wrap(err, "loading assessment item")
	}
	return item, nil
}
