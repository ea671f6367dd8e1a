package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"uniapply/internal/auth"
	"uniapply/internal/config"
	apperrors "uniapply/internal/errors"
	"uniapply/internal/handler"
	"uniapply/internal/model"
	"uniapply/internal/validation"
)

const apiPrefix = "/api/v1"

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	User           *handler.UserHandler
	Auth           *handler.AuthHandler
	University     *handler.UniversityHandler
	Application    *handler.ApplicationHandler
	Recommendation *handler.RecommendationHandler
}

// UserLookup loads the account an access token was issued for.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

var errInactiveUser = errors.New("user is inactive")

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, users UserLookup, h Handlers) {
	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return !strings.HasPrefix(c.Request().URL.Path, apiPrefix+"/")
		},
	}))
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	e.Validator = validation.New()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if cfg.Storage.Driver == "local" {
		e.Static("/media", cfg.Storage.LocalDir)
	}

	// Every API route accepts an optional bearer token; services decide what anonymous callers may do.
	api := e.Group(apiPrefix, OptionalAuth(jwtService, users))

	api.POST("/register/", h.User.Register)
	api.POST("/token/", h.Auth.Login)
	api.POST("/token/refresh/", h.Auth.Refresh)
	api.POST("/token/logout/", h.Auth.Logout)

	api.POST("/recommend/", h.Recommendation.Recommend)

	api.GET("/universities/", h.University.List)
	api.POST("/universities/", h.University.Create)
	api.GET("/universities/:id/", h.University.Get)
	api.PATCH("/universities/:id/", h.University.Update)
	api.PUT("/universities/:id/", h.University.Update)
	api.DELETE("/universities/:id/", h.University.Delete)
	api.POST("/universities/:id/faculties/", h.University.AddFaculty)
	api.DELETE("/universities/:id/faculties/:child/", h.University.DeleteFaculty)
	api.POST("/universities/:id/divisions/", h.University.AddDivision)
	api.DELETE("/universities/:id/divisions/:child/", h.University.DeleteDivision)
	api.POST("/universities/:id/gallery/", h.University.AddGalleryImage)
	api.DELETE("/universities/:id/gallery/:child/", h.University.DeleteGalleryImage)

	api.GET("/applications/", h.Application.List)
	api.POST("/applications/", h.Application.Create)

	secured := api.Group("", RequireAuth(jwtService, users))

	secured.GET("/user/profile/", h.User.GetProfile)
	secured.PATCH("/user/profile/", h.User.UpdateProfile)
	secured.GET("/applications/:id/", h.Application.Get)
	secured.PATCH("/applications/:id/", h.Application.Update)
	secured.PUT("/applications/:id/", h.Application.Update)
	secured.DELETE("/applications/:id/", h.Application.Delete)
}

// jwtConfig validates the token, then reloads the user so that deactivation and
// staff changes apply to tokens that are already issued.
func jwtConfig(jwtService *auth.JWTService, users UserLookup) echojwt.Config {
	return echojwt.Config{
		ContextKey:  handler.ContextKeyClaims,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				return nil, err
			}
			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return nil, fmt.Errorf("load token user: %w", err)
			}
			if !user.IsActive {
				return nil, errInactiveUser
			}
			claims.Email = user.Email
			claims.IsStaff = user.IsStaff
			return claims, nil
		},
	}
}

// RequireAuth rejects requests without a valid access token. Claims already
// resolved by OptionalAuth are reused.
func RequireAuth(jwtService *auth.JWTService, users UserLookup) echo.MiddlewareFunc {
	cfg := jwtConfig(jwtService, users)
	cfg.Skipper = func(c echo.Context) bool {
		_, ok := c.Get(handler.ContextKeyClaims).(*auth.Claims)
		return ok
	}
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
			return unauthorized(apperrors.ErrUnauthenticated.Error(), "NOT_AUTHENTICATED")
		}
		return unauthorized("given token not valid for any token type", "TOKEN_NOT_VALID")
	}
	return echojwt.WithConfig(cfg)
}

// OptionalAuth lets anonymous requests through but still rejects a bad token.
func OptionalAuth(jwtService *auth.JWTService, users UserLookup) echo.MiddlewareFunc {
	cfg := jwtConfig(jwtService, users)
	cfg.ContinueOnIgnoredError = true
	cfg.ErrorHandler = func(c echo.Context, err error) error {
		if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
			return nil
		}
		return unauthorized("given token not valid for any token type", "TOKEN_NOT_VALID")
	}
	return echojwt.WithConfig(cfg)
}

func unauthorized(message, code string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: message, Code: code})
}

// RequestLogger emits one zap line per request.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
			}
			switch {
			case v.Status >= http.StatusInternalServerError:
				log.Error("request", append(fields, zap.Error(v.Error))...)
			case v.Status >= http.StatusBadRequest:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
			return nil
		},
	})
}
