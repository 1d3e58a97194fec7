package auth

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	SigningKey string        `envconfig:"JWT_SIGNING_KEY" default:"dev-only-signing-key"`
	Issuer     string        `envconfig:"JWT_ISSUER" default:"schoolapi"`
	AccessTTL  time.Duration `envconfig:"JWT_ACCESS_TTL" default:"1h"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
