package dummydb

import (
	"context"
	"sort"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

type submissionRepository struct {
	db *submissionTable
}

var _ assessment.SubmissionReader = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *DB) assessment.SubmissionReader {
	return &submissionRepository{db: db.submissions}
}

func (repo *submissionRepository) Submissions(_ context.Context, si assessment.StudentItem, limit int) ([]assessment.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	stored := repo.db.table[studentKey{si.CourseID, si.ItemID, si.StudentID}]
	subs := make([]assessment.Submission, 0, len(stored))
	for _, sub := range stored {
		subs = append(subs, *sub)
	}
	// most recent first
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })

	if limit > 0 && len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}
