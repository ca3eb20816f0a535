package staff

import (
	"context"

	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core/assessment"
)

// StaffInfo assembles the course staff debug panel for an item: live
// workflow status counts, AI training controls when they apply, and the
// schedule of every student-visible step.
func (svc *Service) StaffInfo(ctx context.Context, caller Caller, courseID, itemID string) (StaffInfoContext, error) {
	if err := Authorize(OpStaffInfo, caller); err != nil {
		return StaffInfoContext{}, err
	}

	item, err := svc.getItem(ctx, courseID, itemID)
	if err != nil {
		return StaffInfoContext{}, err
	}

	counts, err := svc.countsByStep(ctx, item)
	if err != nil {
		return StaffInfoContext{}, err
	}

	cx := StaffInfoContext{
		ItemID:         item.ItemID,
		StatusCounts:   counts,
		NumSubmissions: counts.Total(),
		AllowLatex:     item.AllowLatex,
	}

	// The training controls only show for admins on items with a complete
	// example-based configuration, and never in preview.
	ebConfig, configured := item.ExampleBasedConfig()
	displayAIControls := caller.IsAdmin && configured && !caller.IsPreview
	cx.DisplayScheduleTraining = displayAIControls
	cx.DisplayRescheduleTasks = displayAIControls
	if displayAIControls {
		info, err := svc.ai.ClassifierSetInfo(ctx, item.Rubric.WithLabels(), ebConfig.AlgorithmID, item.CourseID, item.ItemID)
		if err != nil {
			return StaffInfoContext{}, errors.Wrap(err, "fetching classifier set info")
		}
		cx.ClassifierSet = info
	}

	// Dates as a student would see them; sentinel bounds present as absent.
	now := nowFunc()
	dateSteps := assessment.DateSteps(item.ConfiguredSteps())
	cx.StepDates = make([]StepDate, 0, len(dateSteps))
	for _, step := range dateSteps {
		window := svc.deadlines.StepWindow(item, step, false, now)
		sd := StepDate{Step: step}
		if window.Start.After(assessment.DistantPast) {
			start := window.Start
			sd.Start = &start
		}
		if window.Due.Before(assessment.DistantFuture) {
			due := window.Due
			sd.Due = &due
		}
		cx.StepDates = append(cx.StepDates, sd)
	}

	return cx, nil
}
