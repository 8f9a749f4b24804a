package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken      string        `envconfig:"BOT_TOKEN" required:"true"`
	WeatherAPIKey string        `envconfig:"WEATHER_API_KEY" required:"true"`
	AdminIDs      []int64       `envconfig:"ADMIN_IDS"`
	GroupLink     string        `envconfig:"GROUP_LINK" default:"Ваша ссылка на канал"`
	DBPath        string        `envconfig:"DB_PATH" default:"./data/weather.db"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr      string        `envconfig:"HTTP_ADDR" default:":8080"`
	HTTPTimeout   time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"` // outbound provider calls
	PollInterval  time.Duration `envconfig:"POLL_INTERVAL" default:"1m"` // scheduler tick period
	SendDelay     time.Duration `envconfig:"SEND_DELAY" default:"100ms"` // pacing between fan-out sends
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
