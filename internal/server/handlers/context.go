package handlers

import (
	"github.com/akarpov/weather-pipeline/internal/contextsvc"
	"github.com/akarpov/weather-pipeline/internal/server/middlewares"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContextHandler struct {
	svc    *contextsvc.Service
	logger *zap.Logger
}

func NewContextHandler(svc *contextsvc.Service, logger *zap.Logger) *ContextHandler {
	return &ContextHandler{svc: svc, logger: logger}
}

// GetWeather serves the stage-1 endpoint. The middleware-assigned request
// id plays the role of the gateway request id.
func (h *ContextHandler) GetWeather(c *gin.Context) {
	raw := rawInput(c, middlewares.GetRequestID(c))

	status, body := h.svc.Handle(c.Request.Context(), raw, clientIP(c))
	c.JSON(status, body)
}
