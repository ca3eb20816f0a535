package dummydb

import (
	"context"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

type selfRepository struct {
	db *selfTable
}

var _ assessment.SelfAPI = (*selfRepository)(nil) // interface compliance check

func NewSelfRepository(db *DB) assessment.SelfAPI {
	return &selfRepository{db: db.self}
}

func (repo *selfRepository) Assessment(_ context.Context, submissionUUID string) (*assessment.Assessment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if asmt, ok := repo.db.table[submissionUUID]; ok {
		cp := *asmt
		return &cp, nil
	}
	return nil, nil
}
