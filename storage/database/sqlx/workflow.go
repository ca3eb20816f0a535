package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

type workflowRepository struct {
	db *sqlx.DB
}

var _ assessment.WorkflowReader = (*workflowRepository)(nil) // interface compliance check

func NewWorkflowRepository(db *sqlx.DB) assessment.WorkflowReader {
	return &workflowRepository{db: db}
}

func (repo *workflowRepository) StatusCounts(ctx context.Context, courseID, itemID string, steps assessment.Steps) (map[assessment.Step]int, error) {
	const q = `
SELECT step, COUNT(*) AS count
FROM workflow
WHERE course_id = $1 AND item_id = $2 AND step = ANY($3)
GROUP BY step`

	stepNames := make(pq.StringArray, len(steps))
	for i, step := range steps {
		stepNames[i] = step.String()
	}

	var rows []struct {
		Step  string `db:"step"`
		Count int    `db:"count"`
	}
	if err := repo.db.SelectContext(ctx, &rows, q, courseID, itemID, stepNames); err != nil {
		return nil, errors.Wrap(err, "counting workflow steps")
	}

	counts := make(map[assessment.Step]int, len(rows))
	for _, row := range rows {
		step, err := assessment.ParseStep(row.Step)
		if err != nil {
			return nil, errors.Wrap(err, "reading workflow step")
		}
		counts[step] = row.Count
	}
	return counts, nil
}
