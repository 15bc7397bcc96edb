package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramBot TelegramBot
	Kickbase    Kickbase
	Ligainsider Ligainsider
	Redis       Redis
	Scheduler   Scheduler
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":80"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type Kickbase struct {
	BaseURL   string        `envconfig:"KICKBASE_BASE_URL" default:"https://api.kickbase.com"`
	Token     string        `envconfig:"KICKBASE_TOKEN" required:"true"`
	LeagueID  string        `envconfig:"KICKBASE_LEAGUE_ID" required:"true"`
	Timeout   time.Duration `envconfig:"KICKBASE_TIMEOUT" default:"10s"`
	RosterTTL time.Duration `envconfig:"ROSTER_TTL" default:"5m"`
}

type Ligainsider struct {
	BaseURL           string        `envconfig:"LIGAINSIDER_BASE_URL" default:"https://www.ligainsider.de"`
	CacheTTL          time.Duration `envconfig:"AVAILABILITY_TTL" default:"1h"`
	RequestsPerSecond float64       `envconfig:"LIGAINSIDER_RPS" default:"2"`
	Burst             int           `envconfig:"LIGAINSIDER_BURST" default:"4"`
	MaxConcurrent     int           `envconfig:"AVAILABILITY_CONCURRENCY" default:"8"`
	Timeout           time.Duration `envconfig:"LIGAINSIDER_TIMEOUT" default:"10s"`
	BreakerTimeout    time.Duration `envconfig:"LIGAINSIDER_BREAKER_TIMEOUT" default:"1m"`
}

// Redis is optional. Without a URL the availability cache stays in memory.
type Redis struct {
	URL string `envconfig:"REDIS_URL"`
}

type Scheduler struct {
	Timezone     string `envconfig:"SCHEDULER_TIMEZONE" default:"Europe/Berlin"`
	AutoOptimize bool   `envconfig:"AUTO_OPTIMIZE" default:"false"`
	MonitorCron  string `envconfig:"MONITOR_CRON" default:"0 18 * * 5"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
