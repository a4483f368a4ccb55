package logs_querying

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LogQueryController struct {
	logQueryService *LogQueryService
}

func NewLogQueryController(logQueryService *LogQueryService) *LogQueryController {
	return &LogQueryController{logQueryService}
}

func (c *LogQueryController) RegisterRoutes(router *gin.RouterGroup) {
	queryRoutes := router.Group("/logs")

	queryRoutes.GET("/recent", c.GetRecentLogs)
	queryRoutes.GET("/severity-breakdown", c.GetSeverityBreakdown)
}

// GetRecentLogs
// @Summary Get recent logs
// @Description Returns the newest log records, newest first. Served from the persistent store when available, otherwise from the in-memory buffer.
// @Tags logs-query
// @Produce json
// @Param limit query int false "Maximum number of records (default 50, max 1000)"
// @Success 200 {array} logs_core.LogRecord
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /logs/recent [get]
func (c *LogQueryController) GetRecentLogs(ctx *gin.Context) {
	var request GetRecentLogsRequestDTO
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	records, _, err := c.logQueryService.Recent(ctx.Request.Context(), request.Limit)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// GetSeverityBreakdown
// @Summary Get severity breakdown
// @Description Returns the number of logs per observed severity, ordered debug, info, warn, error.
// @Tags logs-query
// @Produce json
// @Success 200 {array} SeverityCountDTO
// @Failure 503 {object} map[string]string
// @Router /logs/severity-breakdown [get]
func (c *LogQueryController) GetSeverityBreakdown(ctx *gin.Context) {
	breakdown, _, err := c.logQueryService.SeverityBreakdown(ctx.Request.Context())
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, breakdown)
}

func (c *LogQueryController) handleError(ctx *gin.Context, err error) {
	if errors.Is(err, ErrNoReaderAvailable) {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "No log reader available"})
		return
	}

	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read logs"})
}
