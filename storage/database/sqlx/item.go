package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/types"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

type itemRow struct {
	CourseID        string     `db:"course_id"`
	ItemID          string     `db:"item_id"`
	Title           string     `db:"title"`
	Prompt          string     `db:"prompt"`
	Rubric          types.JSON `db:"rubric"`
	Steps           types.JSON `db:"steps"`
	SubmissionStart null.Time  `db:"submission_start"`
	SubmissionDue   null.Time  `db:"submission_due"`
	AllowLatex      bool       `db:"allow_latex"`
}

func (row itemRow) toDomain() (assessment.Item, error) {
	item := assessment.Item{
		CourseID:        row.CourseID,
		ItemID:          row.ItemID,
		Title:           row.Title,
		Prompt:          row.Prompt,
		SubmissionStart: row.SubmissionStart.Time,
		SubmissionDue:   row.SubmissionDue.Time,
		AllowLatex:      row.AllowLatex,
	}
	if err := row.Rubric.Unmarshal(&item.Rubric); err != nil {
		return assessment.Item{}, errors.Wrap(err, "decoding rubric")
	}
	if err := row.Steps.Unmarshal(&item.Steps); err != nil {
		return assessment.Item{}, errors.Wrap(err, "decoding step configuration")
	}
	return item, nil
}

type itemRepository struct {
	db *sqlx.DB
}

var _ assessment.ItemStore = (*itemRepository)(nil) // interface compliance check

func NewItemRepository(db *sqlx.DB) assessment.ItemStore {
	return &itemRepository{db: db}
}

func (repo *itemRepository) GetItem(ctx context.Context, courseID, itemID string) (assessment.Item, error) {
	const q = `
SELECT course_id, item_id, title, prompt, rubric, steps, submission_start, submission_due, allow_latex
FROM item
WHERE course_id = $1 AND item_id = $2`

	var row itemRow
	if err := repo.db.GetContext(ctx, &row, q, courseID, itemID); err != nil {
		return assessment.Item{}, trapNoRowsErr(err, assessment.ErrItemNotFound, "getting item")
	}
	return row.toDomain()
}
