package errlog

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// LogEverything forces persistence of error kinds that are NoLog by
	// default. Loaded once at startup and treated as immutable.
	LogEverything bool   `envconfig:"LOG_ALL_ERRORS" default:"false"`
	FallbackPath  string `envconfig:"ERROR_LOG_FALLBACK_PATH" default:"error_log_fallback.log"`
	QueueSize     int    `envconfig:"ERROR_LOG_QUEUE_SIZE" default:"256"`
	AppName       string `envconfig:"APP_NAME" default:"schoolapi"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
