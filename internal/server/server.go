package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/akave-ai/confprompt/internal/config"
	"github.com/akave-ai/confprompt/internal/handler"
	"github.com/akave-ai/confprompt/internal/infrastructure/sources"
	"github.com/akave-ai/confprompt/internal/prompt"
	"github.com/akave-ai/confprompt/internal/response"
)

// Deps are the collaborators built by main. Templates and Objects are
// optional; their routes are only mounted when set.
type Deps struct {
	Logger    zerolog.Logger
	Sources   *sources.Registry
	Formatter prompt.Formatter
	Templates handler.TemplateStore
	Objects   handler.ObjectStore
	NewRelic  *newrelic.Application
}

// Server holds the Echo app and dependencies.
type Server struct {
	Echo     *echo.Echo
	Config   *config.Config
	logger   zerolog.Logger
	newRelic *newrelic.Application
}

// New builds the Echo server and registers routes.
func New(cfg *config.Config, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover(), requestLogger(deps.Logger))
	if deps.NewRelic != nil {
		e.Use(newRelicTransaction(deps.NewRelic))
	}
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.Server.CORSAllowedOrigins,
		}))
	}

	reg := deps.Sources
	if reg == nil {
		reg = sources.GlobalRegistry
	}
	prompter := &handler.Prompter{
		Sources:       reg,
		DefaultFormat: cfg.Prompt.DefaultFormat,
		Formatter:     deps.Formatter,
		Logger:        deps.Logger,
	}

	e.GET("/healthz", func(c echo.Context) error {
		return response.OK(c, map[string]any{
			"templates": deps.Templates != nil,
			"objects":   deps.Objects != nil,
		}, "ok")
	})

	prompts := &handler.PromptHandler{Prompter: prompter}
	e.POST("/prompts", prompts.Generate)
	e.GET("/formats", prompts.ListFormats)

	if deps.Templates != nil {
		templates := &handler.TemplateHandler{Prompter: prompter, Store: deps.Templates}
		e.GET("/templates", templates.ListTemplates)
		e.POST("/templates", templates.CreateTemplate)
		e.GET("/templates/:id", templates.GetTemplate)
		e.DELETE("/templates/:id", templates.DeleteTemplate)
		e.GET("/templates/:id/prompts", templates.TemplatePrompts)
	}

	if deps.Objects != nil {
		objects := &handler.ObjectHandler{Prompter: prompter, Store: deps.Objects}
		e.GET("/objects", objects.ListObjects)
		e.PUT("/objects", objects.PutObject)
		e.GET("/objects/prompts", objects.ObjectPrompts)
	}

	deps.Logger.Info().
		Strs("formats", reg.ListRegistered()).
		Bool("templates", deps.Templates != nil).
		Bool("objects", deps.Objects != nil).
		Msg("routes registered")

	return &Server{Echo: e, Config: cfg, logger: deps.Logger, newRelic: deps.NewRelic}
}

// Start starts the HTTP server. Blocks until the context is cancelled or the server fails.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("shutdown")
		}
	}()

	s.Echo.Server.ReadTimeout = time.Duration(s.Config.Server.ReadTimeout) * time.Second
	s.Echo.Server.WriteTimeout = time.Duration(s.Config.Server.WriteTimeout) * time.Second
	s.Echo.Server.IdleTimeout = time.Duration(s.Config.Server.IdleTimeout) * time.Second

	addr := ":" + s.Config.Server.Port
	s.logger.Info().Str("addr", addr).Msg("server listening")
	if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and flushes New Relic data.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Echo.Shutdown(ctx)
	if s.newRelic != nil {
		timeout := 5 * time.Second
		if dl, ok := ctx.Deadline(); ok {
			timeout = time.Until(dl)
		}
		s.newRelic.Shutdown(timeout)
	}
	return err
}
