package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// callerMiddleware resolves the staff caller from the verified JWT claims and
// the preview query flag, and caches it on the context for the handlers.
func callerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			ctx.Set(contextCallerKey, callerFromClaims(ctx, claims))
			return next(ctx)
		}
	}
}
