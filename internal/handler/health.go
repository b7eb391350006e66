package handler

import (
	"net/http"

	"scoreboard/internal/dto"
	"scoreboard/internal/service"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthStatus *service.HealthService
}

func NewHealthHandler(status *service.HealthService) *HealthHandler {
	return &HealthHandler{healthStatus: status}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.healthStatus.IsLive() {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
		return
	}
	c.Status(http.StatusServiceUnavailable)
}

// Readiness 附帶 registry 筆數
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.healthStatus.IsReady() {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	users, blacklisted := h.healthStatus.Stats()
	c.JSON(http.StatusOK, dto.HealthResponseDto{Status: "ready", Users: users, Blacklisted: blacklisted})
}
