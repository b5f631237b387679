package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию бота.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	TZ     string `envconfig:"TZ" default:"Europe/Moscow"`
	Port   int    `envconfig:"PORT" default:"8443"`

	Telegram struct {
		Token      string `envconfig:"TG_BOT_TOKEN"`
		WebhookURL string `envconfig:"TG_WEBHOOK_URL"`
	} `envconfig:""`

	HH struct {
		BaseURL  string        `envconfig:"HH_BASE_URL" default:"https://api.hh.ru/vacancies"`
		Query    string        `envconfig:"HH_QUERY" default:"Оператор контакт-центра"`
		Area     int           `envconfig:"HH_AREA" default:"113"`
		PageSize int           `envconfig:"HH_PAGE_SIZE" default:"99"`
		MaxItems int           `envconfig:"HH_MAX_ITEMS" default:"2000"`
		RPS      int           `envconfig:"HH_RPS" default:"5"`
		Timeout  time.Duration `envconfig:"HH_TIMEOUT" default:"30s"`
	} `envconfig:""`

	Delivery struct {
		Interval   time.Duration `envconfig:"DELIVERY_INTERVAL" default:"600s"`
		FirstDelay time.Duration `envconfig:"DELIVERY_FIRST_DELAY" default:"10s"`
		BatchSize  int           `envconfig:"DELIVERY_BATCH_SIZE" default:"5"`
		BatchDelay time.Duration `envconfig:"DELIVERY_BATCH_DELAY" default:"2s"`
	} `envconfig:""`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
