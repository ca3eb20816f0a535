package dummydb

import (
	"context"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

type workflowRepository struct {
	db *workflowTable
}

var _ assessment.WorkflowReader = (*workflowRepository)(nil) // interface compliance check

func NewWorkflowRepository(db *DB) assessment.WorkflowReader {
	return &workflowRepository{db: db.workflows}
}

func (repo *workflowRepository) StatusCounts(_ context.Context, courseID, itemID string, steps assessment.Steps) (map[assessment.Step]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	counts := make(map[assessment.Step]int, len(steps))
	for _, step := range repo.db.table[itemKey{courseID, itemID}] {
		if steps.Contains(step) {
			counts[step]++
		}
	}
	return counts, nil
}
