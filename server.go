package main

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pfp/asset"
	"pfp/config"
	"pfp/handlers/pfp"
	h "pfp/helpers"
	"pfp/resolver"
)

type Server struct {
	E        *echo.Echo
	Log      *zap.Logger
	Cfg      *config.Config
	Resolver *resolver.Resolver
}

func NewServer(cfg *config.Config, log *zap.Logger, client *http.Client) *Server {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		E:        e,
		Log:      log,
		Cfg:      cfg,
		Resolver: resolver.New(client, cfg.LookupBaseURL, log.Named("resolver")),
	}

	e.HTTPErrorHandler = s.errorHandler

	// essential middleware only
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: h.NewRequestID,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		HandleError:   true,
		LogStatus:     true,
		LogMethod:     true,
		LogURIPath:    true,
		LogLatency:    true,
		LogRequestID:  true,
		LogRemoteIP:   true,
		LogError:      true,
		LogValuesFunc: s.logRequest,
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.E.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	p := pfp.New(s.Resolver, asset.Config{
		BaseURL: s.Cfg.PictureBaseURL,
		Width:   s.Cfg.PictureWidth,
		Token:   s.Cfg.GraphToken,
	}, s.Log)

	s.E.GET("/api/pfp", p.Get)
	s.E.Match([]string{http.MethodGet, http.MethodHead}, "/*", pfp.Index)
}

func (s *Server) Start(addr string) error {
	s.Log.Info("server starting", zap.String("addr", addr))
	return s.E.Start(addr)
}

// errorHandler renders router, binder and recovered-panic errors in the
// same {"error": ...} envelope the handlers use.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	} else {
		s.Log.Error("unhandled error", zap.Error(err))
		msg = "Internal Server Error"
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	if werr := h.JSONError(c, code, msg); werr != nil {
		s.Log.Warn("write error response", zap.Error(werr))
	}
}

func (s *Server) logRequest(c echo.Context, v middleware.RequestLoggerValues) error {
	lvl := zapcore.InfoLevel
	switch {
	case v.Status >= 500:
		lvl = zapcore.ErrorLevel
	case v.Status >= 400:
		lvl = zapcore.WarnLevel
	}

	fields := []zap.Field{
		zap.String("request_id", v.RequestID),
		zap.String("method", v.Method),
		zap.String("path", v.URIPath),
		zap.Int("status", v.Status),
		zap.Duration("latency", v.Latency),
		zap.String("remote_ip", v.RemoteIP),
	}
	if v.Error != nil {
		fields = append(fields, zap.Error(v.Error))
	}
	s.Log.Log(lvl, "request", fields...)
	return nil
}
