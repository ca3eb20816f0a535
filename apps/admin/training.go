package main

import (
	"context"
	"errors"
	"fmt"
)

// scheduleTraining submits a classifier training workflow for the item.
// Contract failures come back as a failed Result; surface them as errors so
// the exit code reflects them.
func (cli *commandLine) scheduleTraining(courseID, itemID string) error {
	res, err := cli.svc.ScheduleTraining(context.Background(), cliCaller, courseID, itemID)
	if err != nil {
		return err
	}
	if !res.Success {
		return errors.New(res.Msg)
	}
	fmt.Println(res.Msg)
	return nil
}

func (cli *commandLine) rescheduleTasks(courseID, itemID string) error {
	res, err := cli.svc.RescheduleUnfinishedTasks(context.Background(), cliCaller, courseID, itemID)
	if err != nil {
		return err
	}
	if !res.Success {
		return errors.New(res.Msg)
	}
	fmt.Println(res.Msg)
	return nil
}
