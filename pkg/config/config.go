package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/samber/lo"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
		Timezone  string `env:"APP_TIMEZONE" env-default:"Europe/Moscow"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Redis struct {
		Addr       string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
		Password   string        `env:"REDIS_PASSWORD"`
		DB         int           `env:"REDIS_DB" env-default:"0"`
		SessionTTL time.Duration `env:"WIZARD_SESSION_TTL" env-default:"24h"`
	}
	Telegram struct {
		BotToken       string  `env:"TELEGRAM_TOKEN"`
		ModerationChat int64   `env:"TELEGRAM_MODERATION_CHAT"`
		Admins         []int64 `env:"TELEGRAM_ADMINS" env-separator:","`
	}
	Feed struct {
		PageSize int `env:"FEED_PAGE_SIZE" env-default:"5"`
	}
	Wizard struct {
		MinLead time.Duration `env:"WIZARD_MIN_LEAD" env-default:"30m"`
		Cities  []string      `env:"WIZARD_CITIES" env-separator:"," env-default:"Moscow,Saint Petersburg"`
	}
	Retention struct {
		Grace    time.Duration `env:"RETENTION_GRACE" env-default:"24h"`
		Interval time.Duration `env:"RETENTION_INTERVAL" env-default:"10m"`
	}
	Storage struct {
		MediaDir string `env:"MEDIA_DIR" env-default:"./media"`
	}
	RateLimit struct {
		Requests int           `env:"RATE_LIMIT_REQUESTS" env-default:"5"`
		Per      time.Duration `env:"RATE_LIMIT_PER" env-default:"1s"`
		Burst    int           `env:"RATE_LIMIT_BURST" env-default:"10"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN returns the libpq connection string used by goose and pgx.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

// IsAdmin reports whether the telegram user may run maintenance commands.
func (c *Config) IsAdmin(userID int64) bool {
	return lo.Contains(c.Telegram.Admins, userID)
}
