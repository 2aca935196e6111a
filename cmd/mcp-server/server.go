package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/njchilds90/intbound"
)

const (
	maxBodyBytes    = 1 << 20 // 1 MiB
	requestIDHeader = "X-Request-ID"
)

// newRouter wires the tool endpoints. reg serves /metrics.
func newRouter(tb *intbound.Toolbox, reg *prometheus.Registry, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestID(), accessLog(logger), recovery(logger))

	// POST /tool: handle a tool call
	r.POST("/tool", func(c *gin.Context) {
		req, err := decodeToolRequest(c.Writer, c.Request)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		resp := tb.Handle(req)
		if resp.Error != "" {
			logger.Info("tool failed", "id", c.GetString("request_id"), "tool", req.Tool, "class", resp.Class, "err", resp.Error)
		}
		c.JSON(http.StatusOK, resp)
	})

	// GET /schema: tool schema for agent registration
	r.GET("/schema", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(intbound.ToolSpec()))
	})

	// GET /health: liveness check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	return r
}

// decodeToolRequest reads one JSON object, rejecting unknown fields and
// trailing data. Numbers are kept exact.
func decodeToolRequest(w http.ResponseWriter, r *http.Request) (intbound.ToolRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return intbound.ToolRequest{}, err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	dec.UseNumber()

	var req intbound.ToolRequest
	if err := dec.Decode(&req); err != nil {
		return intbound.ToolRequest{}, err
	}
	if dec.More() {
		return intbound.ToolRequest{}, errors.New("invalid JSON: trailing data")
	}
	return req, nil
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

func recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		logger.Error("panic", "id", c.GetString("request_id"), "path", c.FullPath(), "panic", rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
