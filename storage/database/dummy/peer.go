package dummydb

import (
	"context"
	"time"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

type peerRepository struct {
	db    *peerTable
	subs  *submissionTable
	items *itemTable
}

var _ assessment.PeerAPI = (*peerRepository)(nil) // interface compliance check

func NewPeerRepository(db *DB) assessment.PeerAPI {
	return &peerRepository{db: db.peer, subs: db.submissions, items: db.items}
}

func (repo *peerRepository) Assessments(_ context.Context, submissionUUID string) ([]assessment.Assessment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return copyAssessments(repo.db.received[submissionUUID]), nil
}

func (repo *peerRepository) SubmittedAssessments(_ context.Context, scorerSubmissionUUID string, scoredOnly bool) ([]assessment.Assessment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	asmts := make([]assessment.Assessment, 0, len(repo.db.submitted[scorerSubmissionUUID]))
	for _, asmt := range repo.db.submitted[scorerSubmissionUUID] {
		if scoredOnly && !asmt.Scored {
			continue
		}
		asmts = append(asmts, *asmt)
	}
	return asmts, nil
}

// RubricMaxScores derives the per-criterion max from the rubric of the item
// the submission was made against.
func (repo *peerRepository) RubricMaxScores(_ context.Context, submissionUUID string) (map[string]int, error) {
	repo.subs.RLock()
	key, ok := repo.subs.index[submissionUUID]
	repo.subs.RUnlock()
	if !ok {
		return nil, assessment.ErrSubmissionNotFound
	}

	repo.items.RLock()
	defer repo.items.RUnlock()
	if item, ok := repo.items.table[key]; ok {
		return item.Rubric.MaxScores(), nil
	}
	return nil, assessment.ErrItemNotFound
}

func (repo *peerRepository) OverrideScoreData(_ context.Context, _ string, si assessment.StudentItem) (*assessment.Score, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if score, ok := repo.db.scores[studentKey{si.CourseID, si.ItemID, si.StudentID}]; ok {
		cp := *score
		return &cp, nil
	}
	return nil, nil
}

func (repo *peerRepository) ScoreOverride(_ context.Context, si assessment.StudentItem, pointsOverride, pointsPossible int) (assessment.OverrideResult, error) {
	if pointsOverride > pointsPossible {
		return assessment.OverrideResult{Msg: "Override score is greater than the total points possible."}, nil
	}

	repo.db.Lock()
	defer repo.db.Unlock()

	// unconditional overwrite; last write wins
	repo.db.scores[studentKey{si.CourseID, si.ItemID, si.StudentID}] = &assessment.Score{
		PointsEarned:   pointsOverride,
		PointsPossible: pointsPossible,
		CreatedAt:      time.Now().UTC(),
	}
	return assessment.OverrideResult{Success: true, Msg: "Score overridden successfully."}, nil
}

func (repo *peerRepository) TrackChanges(_ context.Context, ownerSubmissionUUID string) ([]assessment.TrackChanges, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	edits := make([]assessment.TrackChanges, 0, len(repo.db.edits[ownerSubmissionUUID]))
	for _, tc := range repo.db.edits[ownerSubmissionUUID] {
		edits = append(edits, *tc)
	}
	return edits, nil
}

func copyAssessments(stored []*assessment.Assessment) []assessment.Assessment {
	asmts := make([]assessment.Assessment, 0, len(stored))
	for _, asmt := range stored {
		asmts = append(asmts, *asmt)
	}
	return asmts
}
