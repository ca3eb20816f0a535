package dummydb

import (
	"context"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

type itemRepository struct {
	db *itemTable
}

var _ assessment.ItemStore = (*itemRepository)(nil) // interface compliance check

func NewItemRepository(db *DB) assessment.ItemStore {
	return &itemRepository{db: db.items}
}

func (repo *itemRepository) GetItem(_ context.Context, courseID, itemID string) (assessment.Item, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if item, ok := repo.db.table[itemKey{courseID, itemID}]; ok {
		return *item, nil
	}
	return assessment.Item{}, assessment.ErrItemNotFound
}
