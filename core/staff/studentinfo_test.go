package staff

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core"
	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

func TestStudentInfoEmptyStates(t *testing.T) {
	tests := []struct {
		name      string
		studentID string
	}{
		{name: "no student selected", studentID: ""},
		{name: "student without submission", studentID: "t.ghost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, testItem())

			cx, err := env.svc.StudentInfo(testCtx, courseStaffCaller(), testCourseID, testItemID, tt.studentID)
			if err != nil {
				t.Fatalf("StudentInfo() error = %v", err)
			}

			if cx.Submission != nil {
				t.Errorf("Submission = %+v, want nil", cx.Submission)
			}
			if len(cx.PeerAssessments) != 0 || len(cx.SubmittedAssessments) != 0 {
				t.Errorf("assessment lists = (%d, %d), want empty", len(cx.PeerAssessments), len(cx.SubmittedAssessments))
			}
			if cx.SelfAssessment != nil || cx.ExampleBasedAssessment != nil {
				t.Error("strategy assessments set without a submission")
			}
			if cx.Scores != nil {
				t.Errorf("Scores = %+v, want nil", cx.Scores)
			}
			if cx.ProblemClosed != nil {
				t.Errorf("ProblemClosed = %v, want nil", *cx.ProblemClosed)
			}
			if len(cx.TrackChanges) != 0 {
				t.Errorf("TrackChanges = %+v, want empty", cx.TrackChanges)
			}

			// the rubric renders either way, labels falling back to names
			if len(cx.RubricCriteria) != 2 {
				t.Fatalf("RubricCriteria has %d entries, want 2", len(cx.RubricCriteria))
			}
			ideas := cx.RubricCriteria[0]
			if ideas.Label != "ideas" {
				t.Errorf("unlabelled criterion Label = %q, want name fallback %q", ideas.Label, "ideas")
			}
			if ideas.Options[0].Label != "poor" || ideas.Options[2].Label != "Good" {
				t.Errorf("option labels = (%q, %q), want (%q, %q)", ideas.Options[0].Label, ideas.Options[2].Label, "poor", "Good")
			}
			if clarity := cx.RubricCriteria[1]; clarity.Label != "Clarity" {
				t.Errorf("authored criterion Label = %q, want %q", clarity.Label, "Clarity")
			}
			for _, crit := range cx.RubricCriteria {
				if crit.TotalValue != nil {
					t.Errorf("criterion %q: TotalValue = %d before any assessment", crit.Name, *crit.TotalValue)
				}
			}
		})
	}
}

func TestStudentInfoUngraded(t *testing.T) {
	item := testItem()
	env := newTestEnv(t, item)
	addSubmission(t, env, item, "t.student", "sub-1", assessment.Answer{Text: "my essay"})

	// well before the peer due date
	nowFunc = func() time.Time { return time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = time.Now }()

	cx, err := env.svc.StudentInfo(testCtx, courseStaffCaller(), testCourseID, testItemID, "t.student")
	if err != nil {
		t.Fatalf("StudentInfo() error = %v", err)
	}

	if cx.Submission == nil {
		t.Fatal("Submission = nil, want the student's submission")
	}
	if cx.Submission.UUID != "sub-1" {
		t.Errorf("Submission.UUID = %q, want %q", cx.Submission.UUID, "sub-1")
	}
	if cx.Submission.ImageURL != "" {
		t.Errorf("ImageURL = %q, want empty for a text answer", cx.Submission.ImageURL)
	}

	if len(cx.PeerAssessments) != 0 || cx.SelfAssessment != nil || cx.ExampleBasedAssessment != nil {
		t.Error("ungraded submission came back with assessments")
	}
	if cx.Scores != nil {
		t.Errorf("Scores = %+v, want nil", cx.Scores)
	}

	// the peer step is configured, so its window state renders
	if cx.ProblemClosed == nil {
		t.Fatal("ProblemClosed = nil, want open")
	}
	if *cx.ProblemClosed {
		t.Error("ProblemClosed = true before the due date")
	}

	// denominators are withheld until something is graded
	for _, crit := range cx.RubricCriteria {
		if crit.TotalValue != nil {
			t.Errorf("criterion %q: TotalValue = %d without assessments", crit.Name, *crit.TotalValue)
		}
	}
}

func TestStudentInfoGraded(t *testing.T) {
	item := withExampleBased(testItem())
	env := newTestEnv(t, item)
	addSubmission(t, env, item, "t.student", "sub-1", assessment.Answer{Text: "Go has goroutines."})

	env.db.AddPeerAssessment(assessment.Assessment{
		SubmissionUUID: "sub-1",
		ScorerID:       "t.peer",
		Parts: []assessment.AssessmentPart{
			{CriterionName: "ideas", OptionName: "fair", Points: 3},
			{CriterionName: "clarity", OptionName: "yes", Points: 2},
		},
		PointsEarned:   5,
		PointsPossible: 7,
		Scored:         true,
	})
	env.db.AddSubmittedAssessment("sub-1", assessment.Assessment{SubmissionUUID: "sub-9", ScorerID: "t.student"})
	env.db.SetScore(item.StudentItem("t.student"), assessment.Score{PointsEarned: 5, PointsPossible: 7})
	env.db.AddTrackChanges(assessment.TrackChanges{
		OwnerSubmissionUUID: "sub-1",
		ScorerID:            "t.peer",
		EditedContent:       "Go has many goroutines.",
	})
	env.db.SetSelfAssessment(assessment.Assessment{SubmissionUUID: "sub-1", ScorerID: "t.student", PointsEarned: 7, PointsPossible: 7})

	// past the peer due date
	nowFunc = func() time.Time { return time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = time.Now }()

	cx, err := env.svc.StudentInfo(testCtx, courseStaffCaller(), testCourseID, testItemID, "t.student")
	if err != nil {
		t.Fatalf("StudentInfo() error = %v", err)
	}

	if len(cx.PeerAssessments) != 1 {
		t.Fatalf("PeerAssessments has %d entries, want 1", len(cx.PeerAssessments))
	}
	if got := cx.PeerAssessments[0].ScoreType; got != assessment.StepPeer {
		t.Errorf("peer assessment ScoreType = %q, want %q", got, assessment.StepPeer)
	}
	if len(cx.SubmittedAssessments) != 1 {
		t.Errorf("SubmittedAssessments has %d entries, want 1", len(cx.SubmittedAssessments))
	}
	if cx.SelfAssessment == nil {
		t.Fatal("SelfAssessment = nil, want the recorded self assessment")
	}
	if got := cx.SelfAssessment.ScoreType; got != assessment.StepSelf {
		t.Errorf("self assessment ScoreType = %q, want %q", got, assessment.StepSelf)
	}
	// configured but never trained
	if cx.ExampleBasedAssessment != nil {
		t.Errorf("ExampleBasedAssessment = %+v, want nil", cx.ExampleBasedAssessment)
	}

	if cx.Scores == nil {
		t.Fatal("Scores = nil, want the recorded score")
	}
	if cx.Scores.PointsEarned != 5 || cx.Scores.PointsPossible != 7 {
		t.Errorf("Scores = %d/%d, want 5/7", cx.Scores.PointsEarned, cx.Scores.PointsPossible)
	}

	if len(cx.TrackChanges) != 1 {
		t.Fatalf("TrackChanges has %d entries, want 1", len(cx.TrackChanges))
	}
	if got := cx.TrackChanges[0].EditedContent; got != "Go has many goroutines." {
		t.Errorf("TrackChanges[0].EditedContent = %q", got)
	}

	if cx.ProblemClosed == nil || !*cx.ProblemClosed {
		t.Error("ProblemClosed should report closed past the due date")
	}

	// with assessments on record the denominators fill in
	wantTotals := map[string]int{"ideas": 5, "clarity": 2}
	for _, crit := range cx.RubricCriteria {
		if crit.TotalValue == nil {
			t.Errorf("criterion %q: TotalValue = nil after grading", crit.Name)
			continue
		}
		if *crit.TotalValue != wantTotals[crit.Name] {
			t.Errorf("criterion %q: TotalValue = %d, want %d", crit.Name, *crit.TotalValue, wantTotals[crit.Name])
		}
	}
}

func TestStudentInfoExampleBased(t *testing.T) {
	item := withExampleBased(testItem())
	env := newTestEnv(t, item)
	addSubmission(t, env, item, "t.student", "sub-1", assessment.Answer{Text: "Go has channels and goroutines."})

	if _, err := env.ai.TrainClassifiers(testCtx, item.Rubric.WithLabels(), testExamples(), testCourseID, testItemID, "ease"); err != nil {
		t.Fatalf("TrainClassifiers() error = %v", err)
	}
	if _, err := env.ai.Grade(testCtx, testCourseID, testItemID, "sub-1", "Go has channels and goroutines."); err != nil {
		t.Fatalf("Grade() error = %v", err)
	}

	cx, err := env.svc.StudentInfo(testCtx, courseStaffCaller(), testCourseID, testItemID, "t.student")
	if err != nil {
		t.Fatalf("StudentInfo() error = %v", err)
	}

	if cx.ExampleBasedAssessment == nil {
		t.Fatal("ExampleBasedAssessment = nil, want the machine grade")
	}
	if got := cx.ExampleBasedAssessment.ScoreType; got != assessment.StepExampleBased {
		t.Errorf("ScoreType = %q, want %q", got, assessment.StepExampleBased)
	}
	// graded against the nearest example, which selected the top options
	if cx.ExampleBasedAssessment.PointsEarned != 7 || cx.ExampleBasedAssessment.PointsPossible != 7 {
		t.Errorf("machine grade = %d/%d, want 7/7",
			cx.ExampleBasedAssessment.PointsEarned, cx.ExampleBasedAssessment.PointsPossible)
	}

	// a machine grade alone is enough to fill the denominators in
	for _, crit := range cx.RubricCriteria {
		if crit.TotalValue == nil {
			t.Errorf("criterion %q: TotalValue = nil after machine grading", crit.Name)
		}
	}
}

func TestStudentInfoLatestSubmission(t *testing.T) {
	item := testItem()
	env := newTestEnv(t, item)

	si := item.StudentItem("t.student")
	env.db.AddSubmission(assessment.Submission{
		UUID:          "sub-1",
		StudentItem:   si,
		AttemptNumber: 1,
		SubmittedAt:   time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		Answer:        assessment.Answer{Text: "first try"},
	})
	env.db.AddSubmission(assessment.Submission{
		UUID:          "sub-2",
		StudentItem:   si,
		AttemptNumber: 2,
		SubmittedAt:   time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		Answer:        assessment.Answer{Text: "second try"},
	})

	cx, err := env.svc.StudentInfo(testCtx, courseStaffCaller(), testCourseID, testItemID, "t.student")
	if err != nil {
		t.Fatalf("StudentInfo() error = %v", err)
	}
	if cx.Submission == nil {
		t.Fatal("Submission = nil")
	}
	if cx.Submission.UUID != "sub-2" {
		t.Errorf("Submission.UUID = %q, want the most recent %q", cx.Submission.UUID, "sub-2")
	}
}

func TestStudentInfoFileURL(t *testing.T) {
	item := testItem()
	env := newTestEnv(t, item)
	addSubmission(t, env, item, "t.student", "sub-1", assessment.Answer{Text: "essay", FileKey: "submissions/sub-1/essay.png"})
	env.files.AddFile("submissions/sub-1/essay.png", "https://files.test/essay.png?tok=1")

	cx, err := env.svc.StudentInfo(testCtx, courseStaffCaller(), testCourseID, testItemID, "t.student")
	if err != nil {
		t.Fatalf("StudentInfo() error = %v", err)
	}
	if cx.Submission == nil {
		t.Fatal("Submission = nil")
	}
	if got, want := cx.Submission.ImageURL, "https://files.test/essay.png?tok=1"; got != want {
		t.Errorf("ImageURL = %q, want %q", got, want)
	}
}

func TestStudentInfoFileStoreFault(t *testing.T) {
	item := testItem()
	env := newTestEnv(t, item)
	// the key was never uploaded, so the file store faults on resolve
	addSubmission(t, env, item, "t.student", "sub-1", assessment.Answer{Text: "essay", FileKey: "submissions/sub-1/gone.png"})

	cx, err := env.svc.StudentInfo(testCtx, courseStaffCaller(), testCourseID, testItemID, "t.student")
	if err != nil {
		t.Fatalf("StudentInfo() error = %v, a file store fault must not fail the render", err)
	}

	if cx.Submission == nil {
		t.Fatal("Submission = nil, want it rendered without the URL")
	}
	if cx.Submission.ImageURL != "" {
		t.Errorf("ImageURL = %q, want empty", cx.Submission.ImageURL)
	}
	// the rest of the panel is intact
	if cx.ProblemClosed == nil {
		t.Error("ProblemClosed = nil, want the peer window state")
	}
	if !env.logger.logged("ERROR", "Could not retrieve image URL") {
		t.Error("file store fault was not logged")
	}
}

func TestStudentInfoUnconfiguredStrategiesSkipped(t *testing.T) {
	t.Run("self only", func(t *testing.T) {
		item := testItem()
		item.Steps = []assessment.StepConfig{{Step: assessment.StepSelf}}
		env := newTestEnv(t, item)
		addSubmission(t, env, item, "t.student", "sub-1", assessment.Answer{Text: "essay"})

		// present in the stores, but the peer step is not configured
		env.db.AddPeerAssessment(assessment.Assessment{SubmissionUUID: "sub-1", ScorerID: "t.peer"})
		env.db.SetScore(item.StudentItem("t.student"), assessment.Score{PointsEarned: 5, PointsPossible: 7})
		env.db.SetSelfAssessment(assessment.Assessment{SubmissionUUID: "sub-1", ScorerID: "t.student"})

		cx, err := env.svc.StudentInfo(testCtx, courseStaffCaller(), testCourseID, testItemID, "t.student")
		if err != nil {
			t.Fatalf("StudentInfo() error = %v", err)
		}
		if len(cx.PeerAssessments) != 0 {
			t.Errorf("PeerAssessments has %d entries for an item without a peer step", len(cx.PeerAssessments))
		}
		if cx.Scores != nil {
			t.Errorf("Scores = %+v, want nil without a peer step", cx.Scores)
		}
		if cx.ProblemClosed != nil {
			t.Errorf("ProblemClosed = %v, want nil without a peer step", *cx.ProblemClosed)
		}
		if cx.SelfAssessment == nil {
			t.Error("SelfAssessment = nil, want the recorded self assessment")
		}
	})

	t.Run("peer only", func(t *testing.T) {
		item := testItem()
		item.Steps = []assessment.StepConfig{{Step: assessment.StepPeer, Due: testPeerDue}}
		env := newTestEnv(t, item)
		addSubmission(t, env, item, "t.student", "sub-1", assessment.Answer{Text: "essay"})
		env.db.SetSelfAssessment(assessment.Assessment{SubmissionUUID: "sub-1", ScorerID: "t.student"})

		cx, err := env.svc.StudentInfo(testCtx, courseStaffCaller(), testCourseID, testItemID, "t.student")
		if err != nil {
			t.Fatalf("StudentInfo() error = %v", err)
		}
		if cx.SelfAssessment != nil {
			t.Errorf("SelfAssessment = %+v for an item without a self step", cx.SelfAssessment)
		}
		if cx.ProblemClosed == nil {
			t.Error("ProblemClosed = nil, want the peer window state")
		}
	})
}

func TestStudentInfoStrategyFailure(t *testing.T) {
	errPeerDown := errors.New("peer subsystem unavailable")

	item := testItem()
	env := newTestEnv(t, item)
	addSubmission(t, env, item, "t.student", "sub-1", assessment.Answer{Text: "essay"})

	deps := env.deps
	deps.Peer = failingPeer{PeerAPI: deps.Peer, err: errPeerDown}
	svc := NewService(deps)

	_, err := svc.StudentInfo(testCtx, courseStaffCaller(), testCourseID, testItemID, "t.student")
	if errors.Cause(err) != errPeerDown {
		t.Fatalf("StudentInfo() error = %v, want cause %v", err, errPeerDown)
	}
}

func TestStudentInfoDenied(t *testing.T) {
	env := newTestEnv(t, testItem())

	_, err := env.svc.StudentInfo(testCtx, studentCaller(), testCourseID, testItemID, "t.student")
	if !core.IsPermissionDenied(err) {
		t.Fatalf("StudentInfo() error = %v, want permission denial", err)
	}
	if want := "You do not have permission to access student information."; err.Error() != want {
		t.Errorf("denial msg = %q, want %q", err.Error(), want)
	}
}
