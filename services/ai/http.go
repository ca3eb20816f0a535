package aisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/stvstnfrd/edx-ora2/core"
	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

// Pipeline endpoints, relative to the configured base URL.
var (
	trainEndpoint       = "/v1/classifier_sets/train"
	classifierEndpoint  = "/v1/classifier_sets/info"
	latestGradeEndpoint = "/v1/assessments/latest"
	rescheduleEndpoint  = "/v1/tasks/reschedule"
)

// httpService talks to the out-of-process training/grading pipeline. Every
// failure it reports is an *assessment.AIError; callers decide whether that
// is fatal.
type httpService struct {
	baseURL string
	client  *http.Client
	logger  core.Logger
}

var _ assessment.AIAPI = (*httpService)(nil)

func NewHTTPService(conf *core.Config, logger core.Logger) *httpService {
	return &httpService{
		baseURL: conf.AI.GraderBaseURL,
		client:  &http.Client{},
		logger:  logger,
	}
}

type (
	trainRequest struct {
		Rubric      assessment.Rubric            `json:"rubric"`
		Examples    []assessment.TrainingExample `json:"examples"`
		CourseID    string                       `json:"course_id"`
		ItemID      string                       `json:"item_id"`
		AlgorithmID string                       `json:"algorithm_id"`
	}

	trainResponse struct {
		WorkflowUUID string `json:"workflow_uuid"`
	}

	classifierInfoRequest struct {
		Rubric      assessment.Rubric `json:"rubric"`
		CourseID    string            `json:"course_id"`
		ItemID      string            `json:"item_id"`
		AlgorithmID string            `json:"algorithm_id"`
	}

	rescheduleRequest struct {
		CourseID string              `json:"course_id"`
		ItemID   string              `json:"item_id"`
		TaskType assessment.TaskType `json:"task_type"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func (svc *httpService) TrainClassifiers(ctx context.Context, rubric assessment.Rubric, examples []assessment.TrainingExample, courseID, itemID, algorithmID string) (string, error) {
	payload := trainRequest{
		Rubric:      rubric,
		Examples:    examples,
		CourseID:    courseID,
		ItemID:      itemID,
		AlgorithmID: algorithmID,
	}

	var res trainResponse
	if err := svc.post(ctx, trainEndpoint, payload, &res); err != nil {
		return "", err
	}
	if res.WorkflowUUID == "" {
		return "", assessment.NewAIError("training pipeline returned no workflow uuid", nil)
	}
	return res.WorkflowUUID, nil
}

func (svc *httpService) ClassifierSetInfo(ctx context.Context, rubric assessment.Rubric, algorithmID, courseID, itemID string) (*assessment.ClassifierSetInfo, error) {
	payload := classifierInfoRequest{
		Rubric:      rubric,
		CourseID:    courseID,
		ItemID:      itemID,
		AlgorithmID: algorithmID,
	}

	var info assessment.ClassifierSetInfo
	found, err := svc.postMaybe(ctx, classifierEndpoint, payload, &info)
	if err != nil || !found {
		return nil, err
	}
	return &info, nil
}

func (svc *httpService) LatestAssessment(ctx context.Context, submissionUUID string) (*assessment.Assessment, error) {
	endpoint := latestGradeEndpoint + "?" + url.Values{"submission_uuid": {submissionUUID}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.baseURL+endpoint, nil)
	if err != nil {
		return nil, assessment.NewAIError("building pipeline request", err)
	}

	var asmt assessment.Assessment
	found, err := svc.do(req, &asmt)
	if err != nil || !found {
		return nil, err
	}
	return &asmt, nil
}

func (svc *httpService) RescheduleUnfinishedTasks(ctx context.Context, courseID, itemID string, taskType assessment.TaskType) error {
	payload := rescheduleRequest{CourseID: courseID, ItemID: itemID, TaskType: taskType}
	return svc.post(ctx, rescheduleEndpoint, payload, nil)
}

// post sends payload and decodes the response into out (when non-nil). A 404
// is an error here; use postMaybe for lookups where absence is a value.
func (svc *httpService) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	found, err := svc.postMaybe(ctx, endpoint, payload, out)
	if err != nil {
		return err
	}
	if !found {
		return assessment.NewAIError("pipeline endpoint not found: "+endpoint, nil)
	}
	return nil
}

func (svc *httpService) postMaybe(ctx context.Context, endpoint string, payload, out interface{}) (bool, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, assessment.NewAIError("encoding pipeline request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return false, assessment.NewAIError("building pipeline request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return svc.do(req, out)
}

// do runs the request and decodes a 2xx body into out. It reports
// (false, nil) on 404 so lookups can treat absence as a value, and converts
// everything else non-2xx into an *assessment.AIError carrying the
// pipeline's own message when one was sent.
func (svc *httpService) do(req *http.Request, out interface{}) (bool, error) {
	res, err := svc.client.Do(req)
	if err != nil {
		return false, assessment.NewAIError("requesting training pipeline", err)
	}
	defer func() {
		_, _ = io.Copy(ioutil.Discard, res.Body)
		_ = res.Body.Close()
	}()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return false, nil
	case res.StatusCode >= http.StatusBadRequest:
		msg := fmt.Sprintf("training pipeline returned status %d", res.StatusCode)
		var errRes errorResponse
		if err := json.NewDecoder(res.Body).Decode(&errRes); err == nil && errRes.Error != "" {
			msg = errRes.Error
		}
		svc.logger.Error(msg)
		return false, assessment.NewAIError(msg, nil)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return false, assessment.NewAIError("decoding pipeline response", err)
		}
	}
	return true, nil
}
