package system_healthcheck

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthcheckController struct {
	healthcheckService *HealthcheckService
}

func NewHealthcheckController(healthcheckService *HealthcheckService) *HealthcheckController {
	return &HealthcheckController{healthcheckService}
}

func (c *HealthcheckController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/system/health", c.CheckHealth)
}

// CheckHealth
// @Summary Check service health
// @Description Reports reachability of the store, queue and realtime backends plus host memory usage. Returns 503 only while the service is shutting down.
// @Tags system/health
// @Produce json
// @Success 200 {object} HealthcheckResponseDTO
// @Failure 503 {object} HealthcheckResponseDTO
// @Router /system/health [get]
func (c *HealthcheckController) CheckHealth(ctx *gin.Context) {
	response := c.healthcheckService.Check(ctx.Request.Context())

	if response.Status == HealthStatusShuttingDown {
		ctx.JSON(http.StatusServiceUnavailable, response)
		return
	}

	ctx.JSON(http.StatusOK, response)
}
