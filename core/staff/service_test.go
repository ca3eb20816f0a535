package staff

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stvstnfrd/edx-ora2/core"
	"github.com/stvstnfrd/edx-ora2/core/assessment"
	aisvc "github.com/stvstnfrd/edx-ora2/services/ai"
	uploadsvc "github.com/stvstnfrd/edx-ora2/services/fileupload"
	"github.com/stvstnfrd/edx-ora2/storage/database/dummy"
)

const (
	testCourseID = "course-v1:edX+DemoX+Demo_2026"
	testItemID   = "block-v1:edX+DemoX+Demo_2026+type@openassessment+block@essay1"
)

var (
	testCtx     = context.Background()
	testPeerDue = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
)

func testRubric() assessment.Rubric {
	return assessment.Rubric{
		Prompt: "How well does the essay hold up?",
		Criteria: []assessment.Criterion{
			{
				Name: "ideas",
				Options: []assessment.Option{
					{Name: "poor", Points: 0},
					{Name: "fair", Points: 3},
					{Name: "good", Label: "Good", Points: 5},
				},
			},
			{
				Name:  "clarity",
				Label: "Clarity",
				Options: []assessment.Option{
					{Name: "no", Points: 0},
					{Name: "yes", Points: 2},
				},
			},
		},
	}
}

// testItem configures peer and self assessment, with only the peer step
// carrying a due date.
func testItem() assessment.Item {
	return assessment.Item{
		CourseID: testCourseID,
		ItemID:   testItemID,
		Title:    "Essay",
		Prompt:   "Write an essay.",
		Rubric:   testRubric(),
		Steps: []assessment.StepConfig{
			{Step: assessment.StepPeer, MustGrade: 2, MustBeGradedBy: 2, Due: testPeerDue},
			{Step: assessment.StepSelf},
		},
	}
}

func testExamples() []assessment.TrainingExample {
	return []assessment.TrainingExample{
		{Answer: "Go has channels and goroutines.", OptionsSelected: map[string]string{"ideas": "good", "clarity": "yes"}},
		{Answer: "the quick brown fox", OptionsSelected: map[string]string{"ideas": "poor", "clarity": "no"}},
	}
}

func withExampleBased(item assessment.Item) assessment.Item {
	item.Steps = append(item.Steps, assessment.StepConfig{
		Step:        assessment.StepExampleBased,
		AlgorithmID: "ease",
		Examples:    testExamples(),
	})
	return item
}

type logEntry struct {
	level string
	msg   string
}

type testLogger struct {
	entries []logEntry
}

var _ core.Logger = (*testLogger)(nil)

func (l *testLogger) Enable(bool) {}
func (l *testLogger) log(level, msg string) {
	l.entries = append(l.entries, logEntry{level, msg})
}
func (l *testLogger) Debug(msg string, _ ...interface{}) { l.log("DEBUG", msg) }
func (l *testLogger) Info(msg string, _ ...interface{})  { l.log("INFO", msg) }
func (l *testLogger) Warn(msg string, _ ...interface{})  { l.log("WARN", msg) }
func (l *testLogger) Error(msg string, _ ...interface{}) { l.log("ERROR", msg) }
func (l *testLogger) Fatal(msg string, _ ...interface{}) { l.log("FATAL", msg) }

func (l *testLogger) logged(level, substr string) bool {
	for _, e := range l.entries {
		if e.level == level && strings.Contains(e.msg, substr) {
			return true
		}
	}
	return false
}

type testEnv struct {
	svc    *Service
	deps   ServiceDeps
	db     *dummydb.DB
	ai     *aisvc.LocalService
	files  *uploadsvc.DummyService
	logger *testLogger
}

func newTestEnv(t *testing.T, item assessment.Item) *testEnv {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("opening dummy db: %v", err)
	}
	db.AddItem(item)

	logger := new(testLogger)
	ai := aisvc.NewLocalService(logger)
	files := uploadsvc.NewDummyService()

	deps := ServiceDeps{
		Items:       dummydb.NewItemRepository(db),
		Submissions: dummydb.NewSubmissionRepository(db),
		Workflows:   dummydb.NewWorkflowRepository(db),
		Peer:        dummydb.NewPeerRepository(db),
		Self:        dummydb.NewSelfRepository(db),
		AI:          ai,
		Files:       files,
		Logger:      logger,
	}
	return &testEnv{
		svc:    NewService(deps),
		deps:   deps,
		db:     db,
		ai:     ai,
		files:  files,
		logger: logger,
	}
}

func addSubmission(t *testing.T, env *testEnv, item assessment.Item, studentID, uuid string, answer assessment.Answer) assessment.Submission {
	t.Helper()
	sub := assessment.Submission{
		UUID:          uuid,
		StudentItem:   item.StudentItem(studentID),
		AttemptNumber: 1,
		SubmittedAt:   time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
		CreatedAt:     time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
		Answer:        answer,
	}
	env.db.AddSubmission(sub)
	return sub
}

func courseStaffCaller() Caller { return Caller{Username: "t.staff", IsCourseStaff: true} }
func adminCaller() Caller       { return Caller{Username: "t.admin", IsAdmin: true} }
func studentCaller() Caller     { return Caller{Username: "t.student"} }

// fakes for failure injection; everything not overridden falls through to the
// embedded implementation.

type failingPeer struct {
	assessment.PeerAPI
	err error
}

func (p failingPeer) Assessments(context.Context, string) ([]assessment.Assessment, error) {
	return nil, p.err
}

type recordingPeer struct {
	assessment.PeerAPI
	lastSI       assessment.StudentItem
	lastOverride int
	lastPossible int
	result       assessment.OverrideResult
}

func (p *recordingPeer) ScoreOverride(_ context.Context, si assessment.StudentItem, pointsOverride, pointsPossible int) (assessment.OverrideResult, error) {
	p.lastSI, p.lastOverride, p.lastPossible = si, pointsOverride, pointsPossible
	return p.result, nil
}

// recordingAI stands in for the grading pipeline in tests that only care
// about what crossed the boundary.
type recordingAI struct {
	trainCalls    int
	lastRubric    assessment.Rubric
	lastExamples  []assessment.TrainingExample
	lastAlgorithm string
	trainUUID     string
	trainErr      error

	rescheduleCalls int
	lastTaskType    assessment.TaskType
	rescheduleErr   error
}

var _ assessment.AIAPI = (*recordingAI)(nil)

func (ai *recordingAI) LatestAssessment(context.Context, string) (*assessment.Assessment, error) {
	return nil, nil
}

func (ai *recordingAI) ClassifierSetInfo(context.Context, assessment.Rubric, string, string, string) (*assessment.ClassifierSetInfo, error) {
	return nil, nil
}

func (ai *recordingAI) TrainClassifiers(_ context.Context, rubric assessment.Rubric, examples []assessment.TrainingExample, _, _, algorithmID string) (string, error) {
	ai.trainCalls++
	ai.lastRubric = rubric
	ai.lastExamples = examples
	ai.lastAlgorithm = algorithmID
	if ai.trainErr != nil {
		return "", ai.trainErr
	}
	return ai.trainUUID, nil
}

func (ai *recordingAI) RescheduleUnfinishedTasks(_ context.Context, _, _ string, taskType assessment.TaskType) error {
	ai.rescheduleCalls++
	ai.lastTaskType = taskType
	return ai.rescheduleErr
}
