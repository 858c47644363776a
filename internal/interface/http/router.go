package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/mood-engine/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/biometrics", handler.GetBiometrics)
		api.PATCH("/biometrics", handler.UpdateBiometric)
		api.PUT("/biometrics", handler.ReplaceBiometrics)
		api.POST("/biometrics/reset", handler.ResetBiometrics)
		api.GET("/presets", handler.ListPresets)
		api.POST("/presets/:name/apply", handler.ApplyPreset)
		api.POST("/analyses", handler.Analyze)
		api.GET("/analyses/history", handler.History)
		api.GET("/session", handler.GetSession)
		api.PUT("/session/selection", handler.SelectRecommendation)
		api.DELETE("/session/selection", handler.ClearSelection)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
