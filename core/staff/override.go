package staff

import (
	"context"

	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

// PeerScoreOverride hands a staff-supplied replacement score to the peer
// scoring subsystem and passes its verdict through unmodified. The subsystem
// owns the points_override <= points_possible constraint and last-write-wins
// semantics; each call is an unconditional overwrite.
func (svc *Service) PeerScoreOverride(ctx context.Context, caller Caller, courseID, itemID string, req OverrideRequest) (assessment.OverrideResult, error) {
	if err := Authorize(OpScoreOverride, caller); err != nil {
		return assessment.OverrideResult{}, err
	}

	si, err := ResolveStudentItem(courseID, itemID, req.StudentID)
	if err != nil {
		return assessment.OverrideResult{}, err
	}

	res, err := svc.peer.ScoreOverride(ctx, si, req.PointsOverride, req.PointsPossible)
	if err != nil {
		return assessment.OverrideResult{}, errors.Wrap(err, "overriding peer score")
	}
	return res, nil
}
