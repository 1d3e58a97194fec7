package alert

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// WebhookURL receives a POST per fatal persisted error. Empty
	// disables alerting.
	WebhookURL string        `envconfig:"ALERT_WEBHOOK_URL" default:""`
	Timeout    time.Duration `envconfig:"ALERT_WEBHOOK_TIMEOUT" default:"10s"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
