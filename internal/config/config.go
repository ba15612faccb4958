// internal/config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	Backend struct {
		// "rest" (ファイルバックエンドAPI) か "relational" (マネージドDB)。
		// 実装の選択は構築時に一度だけ行い、呼び出し側には漏らしません。
		Mode        string `mapstructure:"mode"`
		APIBaseURL  string `mapstructure:"api_base_url"`
		DatabaseURL string `mapstructure:"database_url"`
		UserID      string `mapstructure:"user_id"`
	} `mapstructure:"backend"`
	Cache struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"cache"`
	Storage struct {
		DataDir string `mapstructure:"data_dir"`
	} `mapstructure:"storage"`
	Sync struct {
		FlushInterval time.Duration `mapstructure:"flush_interval"`
		MaxAttempts   int           `mapstructure:"max_attempts"`
		QueueLimit    int           `mapstructure:"queue_limit"`
	} `mapstructure:"sync"`
	CORS struct {
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	} `mapstructure:"cors"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	// 環境変数 (例: APP_BACKEND_MODE) でも上書きできるようにする
	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("backend.mode", "APP_BACKEND_MODE")
	viper.BindEnv("backend.api_base_url", "APP_API_BASE_URL")
	viper.BindEnv("backend.database_url", "APP_DATABASE_URL")
	viper.BindEnv("backend.user_id", "APP_USER_ID")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// --- デフォルト値の設定 ---
	if Cfg.Server.Port == "" {
		Cfg.Server.Port = DefaultServerPort
	}
	if Cfg.Log.Level == "" {
		Cfg.Log.Level = DefaultLogLevel
	}
	if Cfg.Backend.Mode == "" {
		Cfg.Backend.Mode = DefaultBackendMode
	}
	if Cfg.Cache.Path == "" {
		Cfg.Cache.Path = DefaultCachePath
	}
	if Cfg.Storage.DataDir == "" {
		Cfg.Storage.DataDir = DefaultDataDir
	}
	if Cfg.Sync.FlushInterval <= 0 {
		Cfg.Sync.FlushInterval = DefaultFlushInterval
	}
	if Cfg.Sync.MaxAttempts <= 0 {
		Cfg.Sync.MaxAttempts = DefaultSyncMaxAttempts
	}
	if Cfg.Sync.QueueLimit <= 0 {
		Cfg.Sync.QueueLimit = DefaultSyncQueueLimit
	}
	if len(Cfg.CORS.AllowedOrigins) == 0 {
		// 開発中はフロントのオリジンが固定できないため全許可
		Cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(Cfg.CORS.AllowedMethods) == 0 {
		Cfg.CORS.AllowedMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	}
	if len(Cfg.CORS.AllowedHeaders) == 0 {
		Cfg.CORS.AllowedHeaders = []string{"Content-Type"}
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Backend Mode: %s", Cfg.Backend.Mode)
	log.Printf("Data Dir: %s", Cfg.Storage.DataDir)

	return nil
}
