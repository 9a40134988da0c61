package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	mongo *mongo.Client
	redis *redis.Client
}

func NewHealthHandler(mongoClient *mongo.Client, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{mongo: mongoClient, redis: redisClient}
}

// Live godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "alive"})
}

// Ready godoc
// @Summary Readiness probe, pings backing stores
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health/ready [get]
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	checks := map[string]string{"mongo": "ok", "redis": "ok"}
	status := http.StatusOK

	if h.mongo != nil {
		if err := h.mongo.Ping(ctx, nil); err != nil {
			checks["mongo"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	state := "ready"
	if status != http.StatusOK {
		state = "degraded"
	}
	return c.JSON(status, healthResponse{Status: state, Checks: checks})
}
