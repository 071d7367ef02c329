package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Meta      Meta      `mapstructure:",squash"`
	Sync      Sync      `mapstructure:",squash"`
	MetaSync  MetaSync  `mapstructure:",squash"`
	SecretKey string    `mapstructure:"secret_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Meta struct {
	BaseURL           string        `mapstructure:"meta_base_url"`
	URL               string        `mapstructure:"meta_url"`
	Version           string        `mapstructure:"meta_version"`
	RequestTimeout    time.Duration `mapstructure:"meta_request_timeout"`
	MaxAttempts       int           `mapstructure:"meta_max_attempts"`
	RetryBaseDelay    time.Duration `mapstructure:"meta_retry_base_delay"`
	RequestsPerSecond float64       `mapstructure:"meta_requests_per_second"`
	RequestBurst      int           `mapstructure:"meta_request_burst"`
	PageSize          int           `mapstructure:"meta_page_size"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

// Sync controla o comportamento de uma passagem de sincronização disparada por requisição
type Sync struct {
	PassTimeout           time.Duration `mapstructure:"sync_pass_timeout"`
	MaxConcurrentAccounts int           `mapstructure:"sync_max_concurrent_accounts"`
	LookbackDays          int           `mapstructure:"sync_lookback_days"`
	DeactivateAfterMisses int           `mapstructure:"sync_deactivate_after_misses"`
	MetricsRetentionDays  int           `mapstructure:"sync_metrics_retention_days"`
}

// MetaSync controla o agendador opcional de sincronização noturna
type MetaSync struct {
	CronSchedule string `mapstructure:"meta_sync_cron"`
	Enabled      bool   `mapstructure:"meta_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/ads_dashboard")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_REQUEST_TIMEOUT", "30s")
	viper.SetDefault("META_MAX_ATTEMPTS", 3)
	viper.SetDefault("META_RETRY_BASE_DELAY", "500ms")
	viper.SetDefault("META_REQUESTS_PER_SECOND", 5.0)
	viper.SetDefault("META_REQUEST_BURST", 10)
	viper.SetDefault("META_PAGE_SIZE", 25)

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("SYNC_PASS_TIMEOUT", "3m")
	viper.SetDefault("SYNC_MAX_CONCURRENT_ACCOUNTS", 3)
	viper.SetDefault("SYNC_LOOKBACK_DAYS", 7)
	viper.SetDefault("SYNC_DEACTIVATE_AFTER_MISSES", 3)
	viper.SetDefault("SYNC_METRICS_RETENTION_DAYS", 90)

	viper.SetDefault("META_SYNC_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("META_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
