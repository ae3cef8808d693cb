package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/poppy/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(nil),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
		identityMiddleware(cfg.Identity, handler.logger),
	)

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.POST("/recommendations", handler.Recommend)
		api.GET("/recommendations/history", handler.History)
		api.POST("/feedback", handler.Feedback)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
