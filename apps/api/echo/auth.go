package echoapi

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/stvstnfrd/edx-ora2/core"
	"github.com/stvstnfrd/edx-ora2/core/staff"
)

const (
	jwtContextKey    = "callerToken"
	contextCallerKey = "caller"
)

// newJWTConfig builds the JWT auth middleware config. Tokens are minted by
// the host LMS with the shared secret; this side only verifies.
func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Username      string `json:"username,omitempty"`
	IsCourseStaff bool   `json:"is_course_staff,omitempty"`
	IsAdmin       bool   `json:"is_admin,omitempty"`
}

// GetCallerClaims builds the claims the LMS would mint for caller; used by
// tests and the admin CLI.
func GetCallerClaims(conf *core.Config, caller staff.Caller) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   caller.Username,
			Audience:  "Staff",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username:      caller.Username,
		IsCourseStaff: caller.IsCourseStaff,
		IsAdmin:       caller.IsAdmin,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextCaller returns the request's staff caller, resolving it from the
// verified claims when callerMiddleware has not cached it yet.
func getContextCaller(ctx echo.Context) (staff.Caller, error) {
	if caller, ok := ctx.Get(contextCallerKey).(staff.Caller); ok {
		return caller, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return staff.Caller{}, errors.Wrap(err, "getting context claims")
	}
	caller := callerFromClaims(ctx, claims)
	ctx.Set(contextCallerKey, caller)
	return caller, nil
}

// callerFromClaims derives the caller identity for this request. Preview mode
// is a per-request view flag, never a claim: staff toggle it from the LMS UI
// via the query string.
func callerFromClaims(ctx echo.Context, claims Claims) staff.Caller {
	preview, _ := strconv.ParseBool(ctx.QueryParam(previewParam))
	return staff.Caller{
		Username:      claims.Username,
		IsCourseStaff: claims.IsCourseStaff,
		IsAdmin:       claims.IsAdmin,
		IsPreview:     preview,
	}
}
