package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/types"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

type submissionRow struct {
	UUID          string     `db:"uuid"`
	CourseID      string     `db:"course_id"`
	ItemID        string     `db:"item_id"`
	StudentID     string     `db:"student_id"`
	ItemType      string     `db:"item_type"`
	AttemptNumber int        `db:"attempt_number"`
	SubmittedAt   time.Time  `db:"submitted_at"`
	CreatedAt     time.Time  `db:"created_at"`
	Answer        types.JSON `db:"answer"`
}

func (row submissionRow) toDomain() (assessment.Submission, error) {
	sub := assessment.Submission{
		UUID: row.UUID,
		StudentItem: assessment.StudentItem{
			CourseID:  row.CourseID,
			ItemID:    row.ItemID,
			StudentID: row.StudentID,
			ItemType:  row.ItemType,
		},
		AttemptNumber: row.AttemptNumber,
		SubmittedAt:   row.SubmittedAt,
		CreatedAt:     row.CreatedAt,
	}
	if err := row.Answer.Unmarshal(&sub.Answer); err != nil {
		return assessment.Submission{}, errors.Wrap(err, "decoding answer")
	}
	return sub, nil
}

type submissionRepository struct {
	db *sqlx.DB
}

var _ assessment.SubmissionReader = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *sqlx.DB) assessment.SubmissionReader {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) Submissions(ctx context.Context, si assessment.StudentItem, limit int) ([]assessment.Submission, error) {
	q := `
SELECT uuid, course_id, item_id, student_id, item_type, attempt_number, submitted_at, created_at, answer
FROM submission
WHERE course_id = $1 AND item_id = $2 AND student_id = $3
ORDER BY submitted_at DESC`
	args := []interface{}{si.CourseID, si.ItemID, si.StudentID}
	if limit > 0 {
		q += ` LIMIT $4`
		args = append(args, limit)
	}

	var rows []submissionRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}

	subs := make([]assessment.Submission, 0, len(rows))
	for _, row := range rows {
		sub, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
