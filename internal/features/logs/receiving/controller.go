package logs_receiving

import (
	"errors"
	"net/http"
	"strconv"

	logs_core "logstream/internal/features/logs/core"

	"github.com/gin-gonic/gin"
)

type ReceivingController struct {
	logReceivingService *LogReceivingService
}

func NewReceivingController(logReceivingService *LogReceivingService) *ReceivingController {
	return &ReceivingController{logReceivingService}
}

func (c *ReceivingController) RegisterRoutes(router *gin.RouterGroup) {
	logRoutes := router.Group("/logs")

	logRoutes.POST("/ingest", c.IngestLog)
}

// IngestLog
// @Summary Ingest a log event
// @Description Validates one log event and writes it to the live feed, the recent-logs buffer, the persistent store and the durable queue.
// @Description
// @Description **Status values:**
// @Description - `ingested`: the record reached the durable queue
// @Description - `ingested_local_only`: a durable sink is configured but the queue publish failed or no queue is configured
// @Description - `received_local`: no durable sink is configured, the record lives in memory only
// @Description
// @Description Severity must be one of debug, info, warn, error (case-insensitive). Timestamp is optional and accepts ISO strings or unix seconds/milliseconds.
// @Tags logs
// @Accept json
// @Produce json
// @Param request body IngestLogRequestDTO true "Log event"
// @Success 202 {object} IngestLogResponseDTO
// @Failure 400 {object} map[string]string "Invalid request format or validation error"
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Router /logs/ingest [post]
func (c *ReceivingController) IngestLog(ctx *gin.Context) {
	var request IngestLogRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	response, err := c.logReceivingService.Ingest(ctx.Request.Context(), &request)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, response)
}

func (c *ReceivingController) handleError(ctx *gin.Context, err error) {
	var validationErr *logs_core.ValidationError
	if errors.As(err, &validationErr) {
		statusCode := c.getStatusCodeForValidationError(validationErr.Code)

		if validationErr.Code == logs_core.ErrorRateLimitExceeded {
			ctx.Header("Retry-After", strconv.Itoa(max(validationErr.RetryAfterSec, 1)))
		}

		ctx.JSON(statusCode, gin.H{
			"error": validationErr.Message,
			"code":  validationErr.Code,
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process log"})
}

func (c *ReceivingController) getStatusCodeForValidationError(errorCode string) int {
	switch errorCode {
	case logs_core.ErrorRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}
