package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/types"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

type selfAssessmentRow struct {
	SubmissionUUID string     `db:"submission_uuid"`
	ScorerID       string     `db:"scorer_id"`
	Parts          types.JSON `db:"parts"`
	PointsEarned   int        `db:"points_earned"`
	PointsPossible int        `db:"points_possible"`
	Feedback       string     `db:"feedback"`
	ScoredAt       time.Time  `db:"scored_at"`
}

type selfRepository struct {
	db *sqlx.DB
}

var _ assessment.SelfAPI = (*selfRepository)(nil) // interface compliance check

func NewSelfRepository(db *sqlx.DB) assessment.SelfAPI {
	return &selfRepository{db: db}
}

func (repo *selfRepository) Assessment(ctx context.Context, submissionUUID string) (*assessment.Assessment, error) {
	const q = `
SELECT submission_uuid, scorer_id, parts, points_earned, points_possible, feedback, scored_at
FROM self_assessment
WHERE submission_uuid = $1`

	var row selfAssessmentRow
	if err := repo.db.GetContext(ctx, &row, q, submissionUUID); err != nil {
		if err == sql.ErrNoRows {
			// the student may simply not have self-assessed yet
			return nil, nil
		}
		return nil, errors.Wrap(err, "getting self assessment")
	}

	asmt := assessment.Assessment{
		SubmissionUUID: row.SubmissionUUID,
		ScorerID:       row.ScorerID,
		ScoreType:      assessment.StepSelf,
		PointsEarned:   row.PointsEarned,
		PointsPossible: row.PointsPossible,
		Feedback:       row.Feedback,
		Scored:         true,
		ScoredAt:       row.ScoredAt,
	}
	if err := row.Parts.Unmarshal(&asmt.Parts); err != nil {
		return nil, errors.Wrap(err, "decoding assessment parts")
	}
	return &asmt, nil
}
