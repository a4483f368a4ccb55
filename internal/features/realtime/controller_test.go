package realtime

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	test_utils "logstream/internal/util/testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRealtimeTestRouter(gateway *Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	v1 := router.Group("/api/v1")
	NewRealtimeController(gateway).RegisterRoutes(v1)

	return router
}

func Test_NegotiateEndpoint_WhenConfigured_ReturnsConnectionInfo(t *testing.T) {
	router := createRealtimeTestRouter(
		NewGateway(&Settings{Endpoint: "https://logs.service.signalr.net", AccessKey: testAccessKey}, time.Hour),
	)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			resp := test_utils.MakeRequest(t, router, test_utils.RequestOptions{
				Method:         method,
				URL:            "/api/v1/realtime/negotiate?userId=dashboard-1",
				ExpectedStatus: http.StatusOK,
			})

			var response NegotiateResponseDTO
			require.NoError(t, json.Unmarshal(resp.Body, &response))

			assert.Equal(t, "https://logs.service.signalr.net/client/?hub=logstream", response.URL)

			claims := parseTestToken(t, response.AccessToken)
			assert.Equal(t, "dashboard-1", claims["nameid"])
		})
	}
}

func Test_NegotiateEndpoint_WhenNotConfigured_ReturnsServiceUnavailable(t *testing.T) {
	router := createRealtimeTestRouter(NewGateway(nil, time.Hour))

	var response map[string]string
	test_utils.MakeGetRequestAndUnmarshal(
		t, router, "/api/v1/realtime/negotiate", "", http.StatusServiceUnavailable, &response,
	)

	assert.Equal(t, ErrorRealtimeNotConfigured, response["code"])
	assert.NotEmpty(t, response["error"])
}
