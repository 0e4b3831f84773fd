package config

import (
	"time"

	env "github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

// Config is loaded from the environment; a .env file is picked up
// automatically when present.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"4001"`

	DBDriver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"DB_DSN" envDefault:".db/collab.db"`

	// RedisAddr enables the document cache and the Redis event
	// notifier when set.
	RedisAddr string `env:"REDIS_ADDR"`

	// KafkaBrokers enables the Kafka event notifier when set.
	KafkaBrokers string `env:"KAFKA_BROKERS"`
	KafkaTopic   string `env:"KAFKA_TOPIC" envDefault:"collab-events"`

	// SnapshotCodec names the codec for snapshot content at rest:
	// none, gzip, brotli or lz4.
	SnapshotCodec string `env:"SNAPSHOT_CODEC" envDefault:"gzip"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"documentiulia-dev"`

	// IdleTimeout is how long a collaborator may stay inactive before
	// the sweeper evicts the live binding.
	IdleTimeout   time.Duration `env:"COLLAB_IDLE_TIMEOUT" envDefault:"30m"`
	SweepSchedule string        `env:"COLLAB_SWEEP_SCHEDULE" envDefault:"@every 1m"`
}

// Load reads the configuration or exits.
func Load() Config {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}
	return cfg
}
