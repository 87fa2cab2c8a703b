package envs

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Envs is the process's ambient configuration. Host/port are the
// load-bearing floor; the rest are tunables the directory, value actors,
// and collector need sensible defaults for.
type Envs struct {
	Host                 string        `env:"REDIGO_HOST" envDefault:"0.0.0.0"`
	Port                 string        `env:"REDIGO_PORT" envDefault:"6379"`
	BlockTimeoutFallback time.Duration `env:"REDIGO_BLOCK_TIMEOUT_FALLBACK" envDefault:"0s"`
	SetFanoutTimeout     time.Duration `env:"REDIGO_SET_FANOUT_TIMEOUT" envDefault:"2s"`
	CollectorTimeout     time.Duration `env:"REDIGO_COLLECTOR_TIMEOUT" envDefault:"0s"`
	ActorMailboxSize     int           `env:"REDIGO_ACTOR_MAILBOX_SIZE" envDefault:"64"`
	LogLevel             string        `env:"REDIGO_LOG_LEVEL" envDefault:"info"`
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found, using default values\n")
	}
}

func Gets() Envs {
	var envs Envs

	if err := env.Parse(&envs); err != nil {
		fmt.Printf("Error parsing env variables: %v\n", err)
		os.Exit(1)
	}

	return envs
}
