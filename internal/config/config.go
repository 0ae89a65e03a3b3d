package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Order fallback policies for when the automatic search fails.
const (
	// OrderFallbackDefault trains with the default (1,1,1) order.
	OrderFallbackDefault = "default"
	// OrderFallbackError propagates the search failure to the caller.
	OrderFallbackError = "error"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Auth        Auth        `mapstructure:",squash"`
	Loader      Loader      `mapstructure:",squash"`
	Training    Training    `mapstructure:",squash"`
	Forecast    Forecast    `mapstructure:",squash"`
	ModelStore  ModelStore  `mapstructure:",squash"`
	Session     Session     `mapstructure:",squash"`
	RetrainSync RetrainSync `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Enabled  bool   `mapstructure:"database_enabled"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Auth struct {
	SecretKey         string `mapstructure:"secret_key"`
	AdminEmail        string `mapstructure:"admin_email"`
	AdminPasswordHash string `mapstructure:"admin_password_hash"`
	TokenTTLHours     int    `mapstructure:"token_ttl_hours"`
}

// Loader controls how the CSV ingestion treats malformed rows.
type Loader struct {
	// StrictDates rejects the whole upload on the first unparsable date
	// instead of dropping the row.
	StrictDates bool `mapstructure:"loader_strict_dates"`
}

type Training struct {
	// LogTransform fits on log1p-transformed values and reverses the
	// transform on predictions.
	LogTransform bool `mapstructure:"training_log_transform"`
	// OrderFallback is the policy when the automatic search fails:
	// "default" or "error".
	OrderFallback string  `mapstructure:"training_order_fallback"`
	SplitRatio    float64 `mapstructure:"training_split_ratio"`

	MaxP           int `mapstructure:"training_search_max_p"`
	MaxD           int `mapstructure:"training_search_max_d"`
	MaxQ           int `mapstructure:"training_search_max_q"`
	SeasonalPeriod int `mapstructure:"training_seasonal_period"`
}

type Forecast struct {
	MaxHorizon int `mapstructure:"forecast_max_horizon"`
}

type ModelStore struct {
	Dir string `mapstructure:"model_store_dir"`
}

type Session struct {
	TTLMinutes int `mapstructure:"session_ttl_minutes"`
}

type RetrainSync struct {
	CronSchedule string `mapstructure:"retrain_sync_cron"`
	Enabled      bool   `mapstructure:"retrain_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_ENABLED", false)
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/forecast")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("ADMIN_EMAIL", "admin@localhost")
	// bcrypt of "admin", for local runs only
	viper.SetDefault("ADMIN_PASSWORD_HASH", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
	viper.SetDefault("TOKEN_TTL_HOURS", 24)

	viper.SetDefault("LOADER_STRICT_DATES", false)

	viper.SetDefault("TRAINING_LOG_TRANSFORM", true)
	viper.SetDefault("TRAINING_ORDER_FALLBACK", OrderFallbackDefault)
	viper.SetDefault("TRAINING_SPLIT_RATIO", 0.8)
	viper.SetDefault("TRAINING_SEARCH_MAX_P", 5)
	viper.SetDefault("TRAINING_SEARCH_MAX_D", 2)
	viper.SetDefault("TRAINING_SEARCH_MAX_Q", 5)
	viper.SetDefault("TRAINING_SEASONAL_PERIOD", 12)

	viper.SetDefault("FORECAST_MAX_HORIZON", 24)

	viper.SetDefault("MODEL_STORE_DIR", "./models")
	viper.SetDefault("SESSION_TTL_MINUTES", 120)

	viper.SetDefault("RETRAIN_SYNC_CRON", "0 3 * * *")
	viper.SetDefault("RETRAIN_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("using variables loaded by godotenv (viper could not read .env):", err)
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

	if config.Training.OrderFallback != OrderFallbackDefault &&
		config.Training.OrderFallback != OrderFallbackError {
		return nil, fmt.Errorf("invalid TRAINING_ORDER_FALLBACK: %q", config.Training.OrderFallback)
	}
	if config.Training.SplitRatio <= 0 || config.Training.SplitRatio >= 1 {
		return nil, fmt.Errorf("TRAINING_SPLIT_RATIO must be in (0, 1), got %v", config.Training.SplitRatio)
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("could not determine the current directory:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info(".env loaded from:", location)
			return
		}
	}

	logrus.Warn("no .env file found in the known locations")
}
