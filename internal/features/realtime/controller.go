package realtime

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RealtimeController struct {
	gateway *Gateway
}

func NewRealtimeController(gateway *Gateway) *RealtimeController {
	return &RealtimeController{gateway}
}

func (c *RealtimeController) RegisterRoutes(router *gin.RouterGroup) {
	realtimeRoutes := router.Group("/realtime")

	realtimeRoutes.GET("/negotiate", c.Negotiate)
	realtimeRoutes.POST("/negotiate", c.Negotiate)
}

// Negotiate
// @Summary Negotiate realtime connection
// @Description Returns the realtime hub URL and an access token for it. Clients receive "newLog" events with the full log record.
// @Tags realtime
// @Produce json
// @Param userId query string false "Optional user identifier bound to the token"
// @Success 200 {object} NegotiateResponseDTO
// @Failure 503 {object} map[string]string
// @Router /realtime/negotiate [get]
// @Router /realtime/negotiate [post]
func (c *RealtimeController) Negotiate(ctx *gin.Context) {
	var request NegotiateRequestDTO
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	response, err := c.gateway.Negotiate(request.UserID)
	if err != nil {
		if errors.Is(err, ErrRealtimeNotConfigured) {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Realtime is not configured",
				"code":  ErrorRealtimeNotConfigured,
			})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to negotiate realtime connection"})
		return
	}

	ctx.JSON(http.StatusOK, response)
}
