package handler

import (
	"time"

	"convenience_store/checkout/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter mounts the checkout API. Every route accepts an optional
// member token; membership pricing needs one.
func NewRouter(h *CheckoutHandler, signer *auth.Signer, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	api := r.Group("/api", auth.MemberMiddleware(signer, logger))
	api.GET("/products", h.ListProducts)
	api.POST("/checkout/preview", h.Preview)
	api.POST("/checkout", h.Confirm)
	api.GET("/checkout/:order_id", h.GetReceipt)

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
