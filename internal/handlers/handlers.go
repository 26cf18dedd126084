// Package handlers exposes the QR pipeline over HTTP: payload construction,
// logo checking and image generation.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"

	"github.com/mhalong/qrstudio/internal/config"
	"github.com/mhalong/qrstudio/internal/logger"
	"github.com/mhalong/qrstudio/internal/payload"
	"github.com/mhalong/qrstudio/internal/promptpay"
	"github.com/mhalong/qrstudio/internal/render"
)

// Handler carries the wired pipeline components for the HTTP handlers.
type Handler struct {
	cfg      *config.Config
	log      *logger.Logger
	builder  *payload.Builder
	renderer *render.Renderer
	probes   *resty.Client
}

// New wires a Handler from configuration.
func New(cfg *config.Config, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		cfg:      cfg,
		log:      log,
		builder:  payload.NewBuilder(cfg.FallbackPayload, promptpay.New(), log),
		renderer: render.New(log),
		probes:   resty.New(),
	}
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
