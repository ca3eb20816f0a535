package staff

import (
	"context"

	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

// StatusCountsByStep reports how many of the item's submissions sit at each
// workflow step, for the course staff panel. Gated like the panel itself.
func (svc *Service) StatusCountsByStep(ctx context.Context, caller Caller, courseID, itemID string) (StatusCounts, error) {
	if err := Authorize(OpStaffInfo, caller); err != nil {
		return nil, err
	}
	item, err := svc.getItem(ctx, courseID, itemID)
	if err != nil {
		return nil, err
	}
	return svc.countsByStep(ctx, item)
}

// countsByStep queries the workflow store over the item's full step set and
// zero-fills whatever the store omits, so the returned counts always sum to
// the submission total. Never cached: staff must see live state.
func (svc *Service) countsByStep(ctx context.Context, item assessment.Item) (StatusCounts, error) {
	steps := assessment.StatusSteps(item.ConfiguredSteps())
	raw, err := svc.workflows.StatusCounts(ctx, item.CourseID, item.ItemID, steps)
	if err != nil {
		return nil, errors.Wrap(err, "counting submissions by workflow step")
	}

	counts := make(StatusCounts, len(steps))
	for _, step := range steps {
		counts[step] = raw[step]
	}
	return counts, nil
}
