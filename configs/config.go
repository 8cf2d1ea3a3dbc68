package configs

import (
	"errors"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string        `env:"APP_ENV" env-default:"development"`
	Port        string        `env:"PORT" env-default:"8000"`
	DBDriver    string        `env:"DB_DRIVER" env-default:"sqlite"`
	DBSource    string        `env:"DB_SOURCE" env-default:"ahara.db"`
	JWTSecret   string        `env:"JWT_SECRET" env-required:"true"`
	JWTTTL      time.Duration `env:"JWT_TTL" env-default:"24h"`
	LogLevel    string        `env:"LOG_LEVEL" env-default:"info"`
	CORSOrigins []string      `env:"CORS_ORIGINS" env-separator:","`
	SeedDemo    bool          `env:"SEED_DEMO" env-default:"false"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	Razorpay Razorpay
	Redis    Redis
	Kafka    Kafka
}

type Razorpay struct {
	KeyID     string        `env:"RAZORPAY_KEY_ID" env-required:"true"`
	KeySecret string        `env:"RAZORPAY_KEY_SECRET" env-required:"true"`
	BaseURL   string        `env:"RAZORPAY_BASE_URL" env-default:"https://api.razorpay.com/v1"`
	Timeout   time.Duration `env:"RAZORPAY_TIMEOUT" env-default:"10s"`
}

// Redis backs the rating cache. An empty Addr disables caching.
type Redis struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `env:"RATING_CACHE_TTL" env-default:"5m"`
}

// Kafka receives domain events. No brokers means events only reach websocket clients.
type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `env:"KAFKA_TOPIC" env-default:"ahara.orders"`
}

// LoadConfig reads an optional .env file, then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Production() bool { return c.Env == "production" }
