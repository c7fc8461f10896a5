package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

// Config targets an already running relay. The room must exist with both
// users as members (see relayctl rooms create).
type Config struct {
	RelayURL  string `envconfig:"E2E_RELAY_URL"`
	GrpcAddr  string `envconfig:"E2E_GRPC_ADDR" default:"localhost:9090"`
	JwtSecret string `envconfig:"JWT_SECRET"`
	JwtIssuer string `envconfig:"JWT_ISSUER"`
	Room      string `envconfig:"E2E_ROOM" default:"e2e"`
	Sender    string `envconfig:"E2E_SENDER" default:"alice"`
	Recipient string `envconfig:"E2E_RECIPIENT" default:"bob"`
	// E2E_DEBUG_JSON dumps every received frame
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
