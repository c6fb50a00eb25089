// Package server exposes the render orchestrator over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcncl/contentjson/internal/content"
	"github.com/mcncl/contentjson/internal/errors"
	"github.com/mcncl/contentjson/internal/models"
	"github.com/mcncl/contentjson/internal/orchestrator"
	"github.com/mcncl/contentjson/internal/renderer"
)

// MessageResourceNotFound is returned for resources the store cannot find.
const MessageResourceNotFound = "Resource not found"

// ResourceOpener loads the document behind a resource path.
type ResourceOpener interface {
	Open(resource string) (*content.Document, error)
}

// NewRouter builds the gin engine serving rendered content.
func NewRouter(
	store ResourceOpener,
	orch *orchestrator.Orchestrator,
	registry *renderer.Registry,
	logger *slog.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(logger))
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	r.GET("/renderers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"renderers": registry.List(),
		})
	})

	r.GET("/json/*resource", renderHandler(store, orch, logger))
	return r
}

func renderHandler(store ResourceOpener, orch *orchestrator.Orchestrator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resource := c.Param("resource")
		doc, err := store.Open(resource)
		if err != nil {
			if errors.TypeOf(err) == errors.ErrorTypeNotFound {
				writeError(c, http.StatusNotFound, MessageResourceNotFound)
				return
			}
			logger.Error("failed to open resource", "resource", resource, "error", err)
			writeError(c, http.StatusInternalServerError, err.Error())
			return
		}

		res := orch.Render(orchestrator.Request{
			Resource:   resource,
			Content:    doc,
			Metadata:   doc,
			Parameters: queryParameters(c),
		})
		if !res.OK() {
			writeError(c, res.Status.HTTPStatus(), res.Message)
			return
		}

		body, err := models.Marshal(res.Payload)
		if err != nil {
			logger.Error("failed to encode response", "resource", resource, "error", err)
			writeError(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	}
}

// queryParameters keeps the first value of every query parameter. A
// parameter given without a value is still present.
func queryParameters(c *gin.Context) map[string]string {
	query := c.Request.URL.Query()
	params := make(map[string]string, len(query))
	for key, values := range query {
		if len(values) > 0 {
			params[key] = values[0]
		} else {
			params[key] = ""
		}
	}
	return params
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message, "status": status})
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
