package staff

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

// Fixed response texts of the training operations; contractual, do not
// reword.
const (
	msgNotConfigured    = "Example Based Assessment is not configured for this location."
	msgTrainScheduled   = "Training scheduled with new Workflow UUID: %s"
	msgTrainFailed      = "An error occurred scheduling classifier training: %v"
	msgRescheduled      = "All AI tasks associated with this item have been rescheduled successfully."
	msgRescheduleFailed = "An error occurred while rescheduling tasks: %v"
)

// ScheduleTraining submits a classifier training workflow for the item's
// example-based step. Denials, a missing example-based configuration and
// pipeline failures all land in the Result; the error return only carries
// faults outside the operation's contract (eg. the item store being down).
// The returned workflow UUID is the only handle the caller retains.
func (svc *Service) ScheduleTraining(ctx context.Context, caller Caller, courseID, itemID string) (Result, error) {
	if err := Authorize(OpScheduleTraining, caller); err != nil {
		return Result{Msg: err.Error()}, nil
	}

	item, err := svc.getItem(ctx, courseID, itemID)
	if err != nil {
		return Result{}, err
	}

	ebConfig, configured := item.ExampleBasedConfig()
	if !configured {
		return Result{Msg: msgNotConfigured}, nil
	}

	workflowUUID, err := svc.ai.TrainClassifiers(
		ctx, item.Rubric.WithLabels(), ebConfig.Examples, item.CourseID, item.ItemID, ebConfig.AlgorithmID,
	)
	if err != nil {
		if assessment.IsAIError(err) {
			return Result{Msg: fmt.Sprintf(msgTrainFailed, err)}, nil
		}
		return Result{}, errors.Wrap(err, "scheduling classifier training")
	}

	return Result{
		Success:      true,
		WorkflowUUID: workflowUUID,
		Msg:          fmt.Sprintf(msgTrainScheduled, workflowUUID),
	}, nil
}

// RescheduleUnfinishedTasks asks the AI pipeline to re-enqueue whatever
// grading tasks it considers unfinished for the item. Fire-and-forget: no
// local retry and no visibility into which tasks existed; staff retry by
// invoking it again. Only grading tasks are ever targeted here; rescheduling
// training tasks stays a latent capability of the boundary that no entry
// point exposes.
func (svc *Service) RescheduleUnfinishedTasks(ctx context.Context, caller Caller, courseID, itemID string) (Result, error) {
	if err := Authorize(OpRescheduleTasks, caller); err != nil {
		return Result{Msg: err.Error()}, nil
	}

	si, err := ResolveStudentItem(courseID, itemID, "")
	if err != nil {
		return Result{}, err
	}

	if err := svc.ai.RescheduleUnfinishedTasks(ctx, si.CourseID, si.ItemID, assessment.TaskGrade); err != nil {
		if assessment.IsAIError(err) {
			return Result{Msg: fmt.Sprintf(msgRescheduleFailed, err)}, nil
		}
		return Result{}, errors.Wrap(err, "rescheduling unfinished tasks")
	}

	return Result{Success: true, Msg: msgRescheduled}, nil
}
