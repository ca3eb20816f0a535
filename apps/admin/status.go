package main

import (
	"context"
	"fmt"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

// status prints how many of the item's submissions sit at each workflow step.
func (cli *commandLine) status(courseID, itemID string) error {
	counts, err := cli.svc.StatusCountsByStep(context.Background(), cliCaller, courseID, itemID)
	if err != nil {
		return err
	}

	fmt.Printf("%s / %s: %d submission(s)\n", courseID, itemID, counts.Total())
	order := assessment.Steps{
		assessment.StepSubmission,
		assessment.StepPeer,
		assessment.StepSelf,
		assessment.StepExampleBased,
		assessment.StepStaff,
		assessment.StepDone,
	}
	for _, step := range order {
		if n, ok := counts[step]; ok {
			fmt.Printf("  %-26s %d\n", step, n)
		}
	}
	return nil
}
