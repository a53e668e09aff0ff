// Package webserver hosts the echo HTTP server and the /api/v1 route registry.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/nashikconnect/vyapaar/internal/app"
)

type Server struct {
	root   *echo.Echo
	appCtx app.AppContext
}

type echoValidator struct {
	validate *validator.Validate
}

func (v *echoValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// NewServer builds the echo instance and binds every registered api route.
func NewServer(appCtx app.AppContext) *Server {
	cfg := appCtx.Config()
	e := echo.New()
	e.HideBanner = true
	e.Validator = &echoValidator{validate: validator.New()}
	e.HTTPErrorHandler = httpErrorHandler
	if cfg.System.Debug {
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.INFO)
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("namespace", "web"))
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("8M"))
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(cfg.Web.Secret))))

	e.Static("/storage", cfg.GetStorageDir())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	api := e.Group(apiPrefix,
		func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				c.Set(AppContextKey, appCtx)
				return next(c)
			}
		},
		optionalJWT([]byte(cfg.Web.Secret)),
	)
	for _, r := range apiRoutes {
		api.Add(r.method, r.path, r.handler, r.middleware...)
	}
	return &Server{root: e, appCtx: appCtx}
}

func (s *Server) Echo() *echo.Echo {
	return s.root
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	cfg := s.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("Starting web server at %s", addr)
	err := s.root.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.root.Shutdown(ctx)
}

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	body := errorBody{Code: "INTERNAL_ERROR", Message: "Internal server error"}
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		body.Code = http.StatusText(code)
		body.Message = fmt.Sprint(he.Message)
	} else {
		zap.L().Error("unhandled request error", zap.Error(err), zap.String("uri", c.Request().RequestURI))
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		zap.L().Error("write error response", zap.Error(err))
	}
}
