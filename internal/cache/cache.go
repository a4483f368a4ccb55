package cache

import (
	"crypto/tls"
	"fmt"
	"logstream/internal/config"
	"sync"

	"github.com/valkey-io/valkey-go"
)

var (
	once         sync.Once
	valkeyClient valkey.Client
	valkeyErr    error
)

// GetCache returns the shared valkey client built from VALKEY_* settings.
func GetCache() (valkey.Client, error) {
	once.Do(func() {
		env := config.GetEnv()
		if env.ValkeyHost == "" {
			valkeyErr = fmt.Errorf("VALKEY_HOST is empty")
			return
		}

		options := valkey.ClientOption{
			InitAddress: []string{env.ValkeyHost + ":" + env.ValkeyPort},
			Password:    env.ValkeyPassword,
			Username:    env.ValkeyUsername,
		}

		if env.ValkeyIsSsl {
			options.TLSConfig = &tls.Config{
				ServerName: env.ValkeyHost,
			}
		}

		valkeyClient, valkeyErr = valkey.NewClient(options)
	})

	return valkeyClient, valkeyErr
}
