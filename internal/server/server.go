// Package server is the thin HTTP boundary over the query pipeline.
// Chat transports live outside this repo; they speak to these routes.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kgavrilov/pravobot/config"
	"github.com/kgavrilov/pravobot/internal/llm"
	"github.com/kgavrilov/pravobot/internal/memory"
	"github.com/kgavrilov/pravobot/internal/pipeline"
	"github.com/kgavrilov/pravobot/internal/reference"
	"github.com/kgavrilov/pravobot/internal/telemetry"
	"github.com/kgavrilov/pravobot/internal/topic"
	web_search "github.com/kgavrilov/pravobot/tools/web_search"
)

// Run assembles the pipeline from configuration and serves it.
func Run(cfg *config.Config) error {
	tel := telemetry.New(cfg.Telemetry.Enabled, telemetry.Logger("TELEMETRY"))

	corpus := reference.NewCorpus(cfg.Reference.DataDir, cfg.Reference.Files, cfg.Reference.MaxChars, telemetry.Logger("REFERENCE"))
	searchSvc, err := web_search.NewService(cfg.Search, telemetry.Logger("SEARCH"))
	if err != nil {
		return fmt.Errorf("search service: %w", err)
	}
	chain := llm.NewChain(
		llm.NewOpenRouter(cfg.LLM),
		cfg.LLM.Models(),
		cfg.LLM.APIKey != "",
		telemetry.Logger("LLM"),
	)
	store := memory.NewStore(cfg.History.MaxPairs)
	orch := pipeline.New(
		topic.NewClassifier(topic.DefaultRules(), topic.Tax),
		corpus, searchSvc, chain, store,
		tel, telemetry.Logger("PIPELINE"),
		cfg.Search.Timeout, cfg.LLM.Timeout,
	)

	e := newEcho(telemetry.Logger("HTTP"))
	registerRoutes(e, orch)
	return e.Start(cfg.Server.Address)
}

func newEcho(logger *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}
