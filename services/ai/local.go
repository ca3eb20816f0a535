package aisvc

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/stvstnfrd/edx-ora2/core"
	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

type (
	classifierKey struct {
		courseID string
		itemID   string
	}

	classifierSet struct {
		info     assessment.ClassifierSetInfo
		rubric   assessment.Rubric
		examples []assessment.TrainingExample
	}

	gradeTask struct {
		courseID       string
		itemID         string
		submissionUUID string
		answer         string
	}

	// LocalService is an in-process AIAPI for dev and tests. Training
	// completes instantly; grading picks the stored training example most
	// similar to the answer and scores with its selected options. Grading
	// tasks submitted before classifiers exist park as unfinished until a
	// reschedule.
	LocalService struct {
		mu          sync.Mutex
		logger      core.Logger
		classifiers map[classifierKey]*classifierSet
		assessments map[string]*assessment.Assessment // submission uuid -> latest AI grade
		unfinished  []gradeTask
	}
)

var _ assessment.AIAPI = (*LocalService)(nil)

func NewLocalService(logger core.Logger) *LocalService {
	return &LocalService{
		logger:      logger,
		classifiers: make(map[classifierKey]*classifierSet),
		assessments: make(map[string]*assessment.Assessment),
	}
}

func (svc *LocalService) TrainClassifiers(_ context.Context, rubric assessment.Rubric, examples []assessment.TrainingExample, courseID, itemID, algorithmID string) (string, error) {
	if algorithmID == "" {
		return "", assessment.NewAIError("no algorithm id provided for training", nil)
	}
	if len(examples) == 0 {
		return "", assessment.NewAIError("no training examples provided", nil)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	workflowUUID := uuid.New().String()
	svc.classifiers[classifierKey{courseID, itemID}] = &classifierSet{
		info: assessment.ClassifierSetInfo{
			AlgorithmID: algorithmID,
			CourseID:    courseID,
			ItemID:      itemID,
			CreatedAt:   time.Now().UTC(),
		},
		rubric:   rubric,
		examples: examples,
	}
	return workflowUUID, nil
}

func (svc *LocalService) ClassifierSetInfo(_ context.Context, _ assessment.Rubric, algorithmID, courseID, itemID string) (*assessment.ClassifierSetInfo, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	cs, ok := svc.classifiers[classifierKey{courseID, itemID}]
	if !ok || cs.info.AlgorithmID != algorithmID {
		return nil, nil
	}
	info := cs.info
	return &info, nil
}

func (svc *LocalService) LatestAssessment(_ context.Context, submissionUUID string) (*assessment.Assessment, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if asmt, ok := svc.assessments[submissionUUID]; ok {
		cp := *asmt
		return &cp, nil
	}
	return nil, nil
}

// Grade scores the submission against the item's trained classifiers. With
// no classifiers yet, the task parks as unfinished (a reschedule picks it up
// once training lands) and an AIError is reported.
func (svc *LocalService) Grade(_ context.Context, courseID, itemID, submissionUUID, answer string) (*assessment.Assessment, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	cs, ok := svc.classifiers[classifierKey{courseID, itemID}]
	if !ok {
		svc.unfinished = append(svc.unfinished, gradeTask{courseID, itemID, submissionUUID, answer})
		svc.logger.Info("ai: no classifiers for item " + itemID + "; grading task parked")
		return nil, assessment.NewAIError("classifiers not yet trained for this item; grading task queued", nil)
	}

	asmt := cs.grade(submissionUUID, answer)
	svc.assessments[submissionUUID] = &asmt
	cp := asmt
	return &cp, nil
}

func (svc *LocalService) RescheduleUnfinishedTasks(_ context.Context, courseID, itemID string, taskType assessment.TaskType) error {
	switch taskType {
	case assessment.TaskGrade:
	case assessment.TaskTrain:
		// training completes inline here; nothing ever parks
		return nil
	default:
		return assessment.NewAIError("unknown task type "+string(taskType), nil)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	cs, ok := svc.classifiers[classifierKey{courseID, itemID}]
	if !ok {
		return assessment.NewAIError("cannot reschedule grading: classifiers not trained for this item", nil)
	}

	var remaining []gradeTask
	var regraded int
	for _, task := range svc.unfinished {
		if task.courseID != courseID || task.itemID != itemID {
			remaining = append(remaining, task)
			continue
		}
		asmt := cs.grade(task.submissionUUID, task.answer)
		svc.assessments[task.submissionUUID] = &asmt
		regraded++
	}
	svc.unfinished = remaining
	if regraded > 0 {
		svc.logger.Info("ai: rescheduled parked grading tasks for item " + itemID)
	}
	return nil
}

// grade scores answer with the options of the most similar training example.
func (cs *classifierSet) grade(submissionUUID, answer string) assessment.Assessment {
	var best *assessment.TrainingExample
	var bestRatio float64
	for i := range cs.examples {
		ratio := similarity(answer, cs.examples[i].Answer)
		if best == nil || ratio > bestRatio {
			best, bestRatio = &cs.examples[i], ratio
		}
	}

	maxScores := cs.rubric.MaxScores()
	asmt := assessment.Assessment{
		SubmissionUUID: submissionUUID,
		ScoreType:      assessment.StepExampleBased,
		Scored:         true,
		ScoredAt:       time.Now().UTC(),
	}
	for _, crit := range cs.rubric.Criteria {
		optName := best.OptionsSelected[crit.Name]
		var points int
		for _, opt := range crit.Options {
			if opt.Name == optName {
				points = opt.Points
				break
			}
		}
		asmt.Parts = append(asmt.Parts, assessment.AssessmentPart{
			CriterionName: crit.Name,
			OptionName:    optName,
			Points:        points,
		})
		asmt.PointsEarned += points
		asmt.PointsPossible += maxScores[crit.Name]
	}
	return asmt
}

func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).QuickRatio()
}
