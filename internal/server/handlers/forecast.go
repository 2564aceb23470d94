package handlers

import (
	"net/http"

	"github.com/akarpov/weather-pipeline/internal/forecast"
	"github.com/akarpov/weather-pipeline/internal/query"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ForecastHandler struct {
	svc    *forecast.Service
	logger *zap.Logger
}

func NewForecastHandler(svc *forecast.Service, logger *zap.Logger) *ForecastHandler {
	return &ForecastHandler{svc: svc, logger: logger}
}

// GetForecast serves the stage-2 endpoint: validate, run the provider
// chain, answer 200 with a canonical document or 400 on bad input. The
// request id travels in the payload, not headers, so stage 1's id is
// honored over a locally generated one.
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	raw := rawInput(c, "")

	q, err := query.ParseQuery(raw)
	if err != nil {
		h.logger.Warn("Invalid forecast request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc := h.svc.GetForecast(c.Request.Context(), q)
	c.JSON(http.StatusOK, doc)
}
