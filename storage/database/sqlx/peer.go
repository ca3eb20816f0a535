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

type peerAssessmentRow struct {
	SubmissionUUID       string     `db:"submission_uuid"`
	ScorerSubmissionUUID string     `db:"scorer_submission_uuid"`
	ScorerID             string     `db:"scorer_id"`
	Parts                types.JSON `db:"parts"`
	PointsEarned         int        `db:"points_earned"`
	PointsPossible       int        `db:"points_possible"`
	Feedback             string     `db:"feedback"`
	Scored               bool       `db:"scored"`
	ScoredAt             time.Time  `db:"scored_at"`
}

func (row peerAssessmentRow) toDomain() (assessment.Assessment, error) {
	asmt := assessment.Assessment{
		SubmissionUUID: row.SubmissionUUID,
		ScorerID:       row.ScorerID,
		ScoreType:      assessment.StepPeer,
		PointsEarned:   row.PointsEarned,
		PointsPossible: row.PointsPossible,
		Feedback:       row.Feedback,
		Scored:         row.Scored,
		ScoredAt:       row.ScoredAt,
	}
	if err := row.Parts.Unmarshal(&asmt.Parts); err != nil {
		return assessment.Assessment{}, errors.Wrap(err, "decoding assessment parts")
	}
	return asmt, nil
}

func toDomainSlice(rows []peerAssessmentRow) ([]assessment.Assessment, error) {
	asmts := make([]assessment.Assessment, 0, len(rows))
	for _, row := range rows {
		asmt, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		asmts = append(asmts, asmt)
	}
	return asmts, nil
}

const peerAssessmentColumns = `
submission_uuid, scorer_submission_uuid, scorer_id, parts, points_earned, points_possible, feedback, scored, scored_at`

type scoreRow struct {
	PointsEarned   int       `db:"points_earned"`
	PointsPossible int       `db:"points_possible"`
	CreatedAt      time.Time `db:"created_at"`
}

type trackChangesRow struct {
	OwnerSubmissionUUID string `db:"owner_submission_uuid"`
	ScorerID            string `db:"scorer_id"`
	EditedContent       string `db:"edited_content"`
}

type peerRepository struct {
	db *sqlx.DB
}

var _ assessment.PeerAPI = (*peerRepository)(nil) // interface compliance check

func NewPeerRepository(db *sqlx.DB) assessment.PeerAPI {
	return &peerRepository{db: db}
}

func (repo *peerRepository) Assessments(ctx context.Context, submissionUUID string) ([]assessment.Assessment, error) {
	q := `SELECT` + peerAssessmentColumns + `
FROM peer_assessment
WHERE submission_uuid = $1
ORDER BY scored_at, id`

	var rows []peerAssessmentRow
	if err := repo.db.SelectContext(ctx, &rows, q, submissionUUID); err != nil {
		return nil, errors.Wrap(err, "querying peer assessments")
	}
	return toDomainSlice(rows)
}

func (repo *peerRepository) SubmittedAssessments(ctx context.Context, scorerSubmissionUUID string, scoredOnly bool) ([]assessment.Assessment, error) {
	q := `SELECT` + peerAssessmentColumns + `
FROM peer_assessment
WHERE scorer_submission_uuid = $1`
	if scoredOnly {
		q += ` AND scored`
	}
	q += `
ORDER BY scored_at, id`

	var rows []peerAssessmentRow
	if err := repo.db.SelectContext(ctx, &rows, q, scorerSubmissionUUID); err != nil {
		return nil, errors.Wrap(err, "querying submitted assessments")
	}
	return toDomainSlice(rows)
}

// RubricMaxScores derives the per-criterion max from the rubric of the item
// the submission was made against.
func (repo *peerRepository) RubricMaxScores(ctx context.Context, submissionUUID string) (map[string]int, error) {
	const q = `
SELECT i.rubric
FROM item i
JOIN submission s ON s.course_id = i.course_id AND s.item_id = i.item_id
WHERE s.uuid = $1`

	var raw types.JSON
	if err := repo.db.GetContext(ctx, &raw, q, submissionUUID); err != nil {
		return nil, trapNoRowsErr(err, assessment.ErrSubmissionNotFound, "getting submission rubric")
	}

	var rubric assessment.Rubric
	if err := raw.Unmarshal(&rubric); err != nil {
		return nil, errors.Wrap(err, "decoding rubric")
	}
	return rubric.MaxScores(), nil
}

func (repo *peerRepository) OverrideScoreData(ctx context.Context, _ string, si assessment.StudentItem) (*assessment.Score, error) {
	const q = `
SELECT points_earned, points_possible, created_at
FROM score
WHERE course_id = $1 AND item_id = $2 AND student_id = $3`

	var row scoreRow
	if err := repo.db.GetContext(ctx, &row, q, si.CourseID, si.ItemID, si.StudentID); err != nil {
		if err == sql.ErrNoRows {
			// nothing scored yet; a valid state, not an error
			return nil, nil
		}
		return nil, errors.Wrap(err, "getting score")
	}
	score := assessment.Score(row)
	return &score, nil
}

func (repo *peerRepository) ScoreOverride(ctx context.Context, si assessment.StudentItem, pointsOverride, pointsPossible int) (assessment.OverrideResult, error) {
	if pointsOverride > pointsPossible {
		return assessment.OverrideResult{Msg: "Override score is greater than the total points possible."}, nil
	}

	// last write wins
	const q = `
INSERT INTO score (course_id, item_id, student_id, points_earned, points_possible, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (course_id, item_id, student_id) DO UPDATE
SET points_earned = EXCLUDED.points_earned,
    points_possible = EXCLUDED.points_possible,
    created_at = EXCLUDED.created_at`

	if _, err := repo.db.ExecContext(ctx, q, si.CourseID, si.ItemID, si.StudentID, pointsOverride, pointsPossible, time.Now().UTC()); err != nil {
		return assessment.OverrideResult{}, errors.Wrap(err, "overriding score")
	}
	return assessment.OverrideResult{Success: true, Msg: "Score overridden successfully."}, nil
}

func (repo *peerRepository) TrackChanges(ctx context.Context, ownerSubmissionUUID string) ([]assessment.TrackChanges, error) {
	const q = `
SELECT owner_submission_uuid, scorer_id, edited_content
FROM track_changes
WHERE owner_submission_uuid = $1
ORDER BY id`

	var rows []trackChangesRow
	if err := repo.db.SelectContext(ctx, &rows, q, ownerSubmissionUUID); err != nil {
		return nil, errors.Wrap(err, "querying track changes")
	}
	edits := make([]assessment.TrackChanges, 0, len(rows))
	for _, row := range rows {
		edits = append(edits, assessment.TrackChanges(row))
	}
	return edits, nil
}
