package system_healthcheck

import (
	"sync"

	"logstream/internal/downdetect"
	"logstream/internal/util/logger"
)

var (
	healthcheckController     *HealthcheckController
	healthcheckControllerOnce sync.Once
)

func GetHealthcheckController() *HealthcheckController {
	healthcheckControllerOnce.Do(func() {
		healthcheckController = NewHealthcheckController(
			NewHealthcheckService(downdetect.GetDowndetectService(), logger.GetLogger()),
		)
	})

	return healthcheckController
}
