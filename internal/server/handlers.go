package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kgavrilov/pravobot/internal/pipeline"
)

type queryRequest struct {
	SessionID string   `json:"session_id"`
	Query     string   `json:"query"`
	Images    []string `json:"images,omitempty"`
}

type queryResponse struct {
	Reply []string `json:"reply"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type documentRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

func registerRoutes(e *echo.Echo, orch *pipeline.Orchestrator) {
	e.POST("/v1/query", handleQuery(orch))
	e.POST("/v1/session/clear", handleClear(orch))
	e.POST("/v1/document", handleDocument(orch))
}

func handleQuery(orch *pipeline.Orchestrator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req queryRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		if strings.TrimSpace(req.SessionID) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "session_id required")
		}
		if strings.TrimSpace(req.Query) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "query required")
		}
		for _, img := range req.Images {
			orch.AttachImage(req.SessionID, img)
		}
		reply := orch.Handle(c.Request().Context(), req.SessionID, req.Query, pipeline.NopSink{})
		return c.JSON(http.StatusOK, queryResponse{Reply: reply})
	}
}

func handleClear(orch *pipeline.Orchestrator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req sessionRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		if strings.TrimSpace(req.SessionID) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "session_id required")
		}
		orch.Reset(req.SessionID)
		return c.JSON(http.StatusOK, map[string]string{"status": "cleared"})
	}
}

// handleDocument accepts text already extracted from a user document.
// Binary parsing happens upstream in the transport layer.
func handleDocument(orch *pipeline.Orchestrator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req documentRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		if strings.TrimSpace(req.SessionID) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "session_id required")
		}
		if strings.TrimSpace(req.Text) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "text required")
		}
		orch.AttachDocument(req.SessionID, req.Text)
		return c.JSON(http.StatusOK, map[string]string{"status": "stored"})
	}
}
