package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Database      DatabaseConfig     `yaml:"database"`
	Redis         RedisConfig        `yaml:"redis"`
	JWT           JWTConfig          `yaml:"jwt"`
	Extraction    ExtractionConfig   `yaml:"extraction"`
	Analysis      AnalysisConfig     `yaml:"analysis"`
	Storage       StorageConfig      `yaml:"storage"`
	Thumbnail     ThumbnailConfig    `yaml:"thumbnail"`
	Credits       CreditsConfig      `yaml:"credits"`
	Notifications NotificationConfig `yaml:"notifications"`
	Pagination    PaginationConfig   `yaml:"pagination"`
	Log           LogConfig          `yaml:"log"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	Charset      string `yaml:"charset"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type RedisConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Password           string `yaml:"password"`
	DB                 int    `yaml:"db"`
	ProcessedURLExpire int    `yaml:"processed_url_expire"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

type ExtractionConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxFrames      int    `yaml:"max_frames"`
}

type AnalysisConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type StorageConfig struct {
	BasePath string `yaml:"base_path"`
}

type ThumbnailConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Quality int `yaml:"quality"`
}

type CreditsConfig struct {
	ImagesPerCredit int `yaml:"images_per_credit"`
}

type NotificationConfig struct {
	RetentionDays   int `yaml:"retention_days"`
	CleanupInterval int `yaml:"cleanup_interval"`
}

type PaginationConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

var AppConfig *Config

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	AppConfig = &cfg
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Extraction.TimeoutSeconds <= 0 {
		cfg.Extraction.TimeoutSeconds = 600
	}
	if cfg.Extraction.MaxFrames <= 0 {
		cfg.Extraction.MaxFrames = 50
	}
	if cfg.Analysis.TimeoutSeconds <= 0 {
		cfg.Analysis.TimeoutSeconds = 120
	}
	if cfg.Redis.ProcessedURLExpire <= 0 {
		cfg.Redis.ProcessedURLExpire = 86400
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./data"
	}
	if cfg.Thumbnail.Width <= 0 {
		cfg.Thumbnail.Width = 480
	}
	if cfg.Thumbnail.Height <= 0 {
		cfg.Thumbnail.Height = 270
	}
	if cfg.Thumbnail.Quality <= 0 {
		cfg.Thumbnail.Quality = 85
	}
	if cfg.Credits.ImagesPerCredit <= 0 {
		cfg.Credits.ImagesPerCredit = 10
	}
	if cfg.Notifications.RetentionDays <= 0 {
		cfg.Notifications.RetentionDays = 30
	}
	if cfg.Notifications.CleanupInterval <= 0 {
		cfg.Notifications.CleanupInterval = 86400
	}
	if cfg.Pagination.DefaultPageSize <= 0 {
		cfg.Pagination.DefaultPageSize = 20
	}
	if cfg.Pagination.MaxPageSize <= 0 {
		cfg.Pagination.MaxPageSize = 100
	}
	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
}
