package realtime

import (
	"net/http"
	"sync"

	"logstream/internal/config"
	"logstream/internal/util/logger"
)

var (
	realtimeSettings     *Settings
	realtimeSettingsOnce sync.Once

	broadcaster     *Broadcaster
	broadcasterOnce sync.Once

	gateway     *Gateway
	gatewayOnce sync.Once

	realtimeController     *RealtimeController
	realtimeControllerOnce sync.Once
)

func getSettings() *Settings {
	realtimeSettingsOnce.Do(func() {
		env := config.GetEnv()
		log := logger.GetLogger()

		if env.SignalRConnectionString == "" {
			log.Warn("Realtime connection string is not set, live feed disabled")
			return
		}

		settings, err := ParseConnectionString(env.SignalRConnectionString)
		if err != nil {
			log.Error("Invalid realtime connection string, live feed disabled", "error", err)
			return
		}

		realtimeSettings = settings
	})

	return realtimeSettings
}

func GetBroadcaster() *Broadcaster {
	broadcasterOnce.Do(func() {
		env := config.GetEnv()

		broadcaster = NewBroadcaster(
			getSettings(),
			&http.Client{Timeout: env.RealtimeTimeout},
			env.RealtimeTimeout,
			DefaultSendQueueSize,
			logger.GetLogger(),
		)
	})

	return broadcaster
}

func GetGateway() *Gateway {
	gatewayOnce.Do(func() {
		gateway = NewGateway(getSettings(), config.GetEnv().RealtimeTokenTTL)
	})

	return gateway
}

func GetRealtimeController() *RealtimeController {
	realtimeControllerOnce.Do(func() {
		realtimeController = NewRealtimeController(GetGateway())
	})

	return realtimeController
}
