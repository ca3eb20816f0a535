package echoapi

import (
	"github.com/labstack/echo/v4"
)

var (
	studentParam = "student_id"
	previewParam = "preview"
)

// Location is the course/item identity every staff route is mounted under.
// Echo URL-decodes path params, so escaped usage-key characters survive.
type Location struct {
	CourseID string
	ItemID   string
}

func (loc *Location) Bind(ctx echo.Context) {
	loc.CourseID = ctx.Param("course_id")
	loc.ItemID = ctx.Param("item_id")
}
