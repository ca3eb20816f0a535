package staff

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

// strategyFunc collects one assessment strategy's results into the context.
type strategyFunc func(ctx context.Context, cx *StudentInfoContext, item assessment.Item, si assessment.StudentItem, submissionUUID string) error

// StudentInfo assembles one student's grading state across every configured
// strategy. An empty studentID is the valid "no student selected yet" state
// and yields the empty context; so does a student with no submission. A
// failing strategy store fails the whole render: staff must know the panel
// is incomplete.
func (svc *Service) StudentInfo(ctx context.Context, caller Caller, courseID, itemID, studentID string) (StudentInfoContext, error) {
	if err := Authorize(OpStudentInfo, caller); err != nil {
		return StudentInfoContext{}, err
	}

	si, err := ResolveStudentItem(courseID, itemID, studentID)
	if err != nil {
		return StudentInfoContext{}, err
	}
	item, err := svc.items.GetItem(ctx, si.CourseID, si.ItemID)
	if err != nil {
		return StudentInfoContext{}, errors.Wrap(err, "loading assessment item")
	}

	cx := StudentInfoContext{
		PeerAssessments:      []assessment.Assessment{},
		SubmittedAssessments: []assessment.Assessment{},
		RubricCriteria:       item.Rubric.WithLabels().Criteria,
	}

	submissionUUID, err := svc.collectSubmission(ctx, &cx, si)
	if err != nil {
		return StudentInfoContext{}, err
	}
	if submissionUUID == "" {
		// nothing submitted: every strategy would come back empty anyway
		return cx, nil
	}

	strategies := map[assessment.Step]strategyFunc{
		assessment.StepPeer:         svc.collectPeer,
		assessment.StepSelf:         svc.collectSelf,
		assessment.StepExampleBased: svc.collectExampleBased,
	}
	configured := item.ConfiguredSteps()
	for _, step := range assessment.StrategySteps {
		if !configured.Contains(step) {
			continue
		}
		if err := strategies[step](ctx, &cx, item, si, submissionUUID); err != nil {
			return StudentInfoContext{}, err
		}
	}

	if err := svc.backfillTotalValues(ctx, &cx, submissionUUID); err != nil {
		return StudentInfoContext{}, err
	}
	return cx, nil
}

// collectSubmission resolves the student's most recent submission and, when
// the answer references an uploaded file, its display URL. A file store
// fault is logged and rendering continues without the URL; it must never
// block the rest of the panel.
func (svc *Service) collectSubmission(ctx context.Context, cx *StudentInfoContext, si assessment.StudentItem) (string, error) {
	if si.StudentID == "" {
		return "", nil
	}

	subs, err := svc.submissions.Submissions(ctx, si, 1)
	if err != nil {
		return "", errors.Wrap(err, "fetching submissions")
	}
	if len(subs) == 0 {
		return "", nil
	}

	view := SubmissionView{Submission: subs[0]}
	if fileKey := view.Answer.FileKey; fileKey != "" {
		if url, err := svc.files.DownloadURL(ctx, fileKey); err != nil {
			svc.logger.Error(fmt.Sprintf(
				"Could not retrieve image URL for staff debug page. The student ID is %q, and the file key is %q",
				si.StudentID, fileKey,
			), err)
		} else {
			view.ImageURL = url
		}
	}
	cx.Submission = &view
	return view.UUID, nil
}

func (svc *Service) collectPeer(ctx context.Context, cx *StudentInfoContext, item assessment.Item, si assessment.StudentItem, submissionUUID string) error {
	asmts, err := svc.peer.Assessments(ctx, submissionUUID)
	if err != nil {
		return errors.Wrap(err, "fetching peer assessments")
	}
	if asmts != nil {
		cx.PeerAssessments = asmts
	}

	submitted, err := svc.peer.SubmittedAssessments(ctx, submissionUUID, false /* scoredOnly */)
	if err != nil {
		return errors.Wrap(err, "fetching submitted assessments")
	}
	if submitted != nil {
		cx.SubmittedAssessments = submitted
	}

	scores, err := svc.peer.OverrideScoreData(ctx, submissionUUID, si)
	if err != nil {
		return errors.Wrap(err, "fetching override score data")
	}
	cx.Scores = scores

	edits, err := svc.peer.TrackChanges(ctx, submissionUUID)
	if err != nil {
		return errors.Wrap(err, "fetching track changes")
	}
	cx.TrackChanges = edits

	window := svc.deadlines.StepWindow(item, assessment.StepPeer, false, nowFunc())
	closed := window.Closed
	cx.ProblemClosed = &closed
	return nil
}

func (svc *Service) collectSelf(ctx context.Context, cx *StudentInfoContext, _ assessment.Item, _ assessment.StudentItem, submissionUUID string) error {
	asmt, err := svc.self.Assessment(ctx, submissionUUID)
	if err != nil {
		return errors.Wrap(err, "fetching self assessment")
	}
	cx.SelfAssessment = asmt
	return nil
}

func (svc *Service) collectExampleBased(ctx context.Context, cx *StudentInfoContext, _ assessment.Item, _ assessment.StudentItem, submissionUUID string) error {
	asmt, err := svc.ai.LatestAssessment(ctx, submissionUUID)
	if err != nil {
		return errors.Wrap(err, "fetching example based assessment")
	}
	cx.ExampleBasedAssessment = asmt
	return nil
}

// backfillTotalValues sets each criterion's total_value to its max achievable
// score, but only once at least one assessment of any strategy exists;
// ungraded work renders without denominators.
func (svc *Service) backfillTotalValues(ctx context.Context, cx *StudentInfoContext, submissionUUID string) error {
	if len(cx.PeerAssessments) == 0 && cx.SelfAssessment == nil && cx.ExampleBasedAssessment == nil {
		return nil
	}

	maxScores, err := svc.peer.RubricMaxScores(ctx, submissionUUID)
	if err != nil {
		return errors.Wrap(err, "fetching rubric max scores")
	}
	for i := range cx.RubricCriteria {
		if max, ok := maxScores[cx.RubricCriteria[i].Name]; ok {
			total := max
			cx.RubricCriteria[i].TotalValue = &total
		}
	}
	return nil
}
