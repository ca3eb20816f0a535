package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core/staff"
)

type staffApi struct {
	svc        *staff.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerStaffAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *staff.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := staffApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	// all staff endpoints are authed; fine-grained permission checks live in
	// the service so denial messages reach the caller verbatim
	ig := g.Group("/courses/:course_id/items/:item_id", jwt, callerMiddleware())

	ig.GET("/staff_info", api.staffInfo)
	ig.GET("/student_info", api.studentInfo)
	ig.POST("/schedule_training", api.scheduleTraining)
	ig.POST("/reschedule_unfinished_tasks", api.rescheduleUnfinishedTasks)
	ig.POST("/peer_score_override", api.peerScoreOverride)
}

// Handlers

func (api *staffApi) staffInfo(ctx echo.Context) error {
	caller, err := getContextCaller(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context caller")
	}
	var loc Location
	loc.Bind(ctx)

	info, err := api.svc.StaffInfo(ctx.Request().Context(), caller, loc.CourseID, loc.ItemID)
	if err != nil {
		return errors.Wrap(err, "rendering staff info")
	}
	return ctx.JSON(http.StatusOK, info)
}

func (api *staffApi) studentInfo(ctx echo.Context) error {
	caller, err := getContextCaller(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context caller")
	}
	var loc Location
	loc.Bind(ctx)

	// an absent student_id is the valid empty state, not an error
	info, err := api.svc.StudentInfo(ctx.Request().Context(), caller, loc.CourseID, loc.ItemID, ctx.QueryParam(studentParam))
	if err != nil {
		return errors.Wrap(err, "rendering student info")
	}
	return ctx.JSON(http.StatusOK, info)
}

func (api *staffApi) scheduleTraining(ctx echo.Context) error {
	caller, err := getContextCaller(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context caller")
	}
	var loc Location
	loc.Bind(ctx)

	res, err := api.svc.ScheduleTraining(ctx.Request().Context(), caller, loc.CourseID, loc.ItemID)
	if err != nil {
		return errors.Wrap(err, "scheduling training")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *staffApi) rescheduleUnfinishedTasks(ctx echo.Context) error {
	caller, err := getContextCaller(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context caller")
	}
	var loc Location
	loc.Bind(ctx)

	res, err := api.svc.RescheduleUnfinishedTasks(ctx.Request().Context(), caller, loc.CourseID, loc.ItemID)
	if err != nil {
		return errors.Wrap(err, "rescheduling unfinished tasks")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *staffApi) peerScoreOverride(ctx echo.Context) error {
	caller, err := getContextCaller(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context caller")
	}
	var loc Location
	loc.Bind(ctx)

	var data staff.OverrideRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OverrideRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.PeerScoreOverride(ctx.Request().Context(), caller, loc.CourseID, loc.ItemID, data)
	if err != nil {
		return errors.Wrap(err, "overriding peer score")
	}
	return ctx.JSON(http.StatusOK, res)
}
