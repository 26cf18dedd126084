package main

import (
	"github.com/gin-gonic/gin"

	"github.com/mhalong/qrstudio/internal/config"
	"github.com/mhalong/qrstudio/internal/handlers"
	"github.com/mhalong/qrstudio/internal/logger"
)

func main() {
	log := logger.New("server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())

	h := handlers.New(cfg, log)
	api := r.Group("/api")
	{
		api.GET("/qr", h.QRCodeHandler)
		api.GET("/payload", h.PayloadHandler)
		api.POST("/logo/check", h.LogoCheck)
	}
	r.GET("/healthz", h.HealthCheck)

	log.Info().Str("addr", cfg.Addr).Msg("qrstudio listening")
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
