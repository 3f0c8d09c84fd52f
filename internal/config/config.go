package config

import (
	"fmt"
	"os"
	"time"

	"image-publisher/internal/domain"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/wb-go/wbf/retry"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Publish   PublishConfig   `yaml:"publish"`
	Watermark WatermarkConfig `yaml:"watermark"`
	Twitter   TwitterConfig   `yaml:"twitter"`
	Storage   StorageConfig   `yaml:"storage"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Retry     RetryConfig     `yaml:"retry"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"SERVER_ADDR" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type PipelineConfig struct {
	Presets       []string      `yaml:"presets" env:"PIPELINE_PRESETS" env-default:"300x250,728x90,160x600,300x600"`
	SharePreset   string        `yaml:"share_preset" env:"PIPELINE_SHARE_PRESET" env-default:"300x250"`
	Quality       int           `yaml:"quality" env:"PIPELINE_QUALITY" env-default:"85"`
	Workers       int           `yaml:"workers" env:"PIPELINE_WORKERS" env-default:"1"`
	ResizeTimeout time.Duration `yaml:"resize_timeout" env:"PIPELINE_RESIZE_TIMEOUT" env-default:"30s"`
}

type PublishConfig struct {
	Strategy       string        `yaml:"strategy" env:"PUBLISH_STRATEGY" env-default:"share-link"`
	Message        string        `yaml:"message" env:"PUBLISH_MESSAGE" env-default:"Check out this awesome image!"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"PUBLISH_REQUEST_TIMEOUT" env-default:"30s"`
}

type WatermarkConfig struct {
	Enabled  bool    `yaml:"enabled" env:"WATERMARK_ENABLED" env-default:"false"`
	Text     string  `yaml:"text" env:"WATERMARK_TEXT" env-default:""`
	Position string  `yaml:"position" env:"WATERMARK_POSITION" env-default:"bottom-right"`
	Opacity  float64 `yaml:"opacity" env:"WATERMARK_OPACITY" env-default:"0.5"`
}

type TwitterConfig struct {
	APIKey        string `yaml:"api_key" env:"TWITTER_API_KEY"`
	APISecret     string `yaml:"api_secret" env:"TWITTER_API_SECRET"`
	AccessToken   string `yaml:"access_token" env:"TWITTER_ACCESS_TOKEN"`
	AccessSecret  string `yaml:"access_secret" env:"TWITTER_ACCESS_TOKEN_SECRET"`
	APIBaseURL    string `yaml:"api_base_url" env:"TWITTER_API_BASE_URL" env-default:"https://api.twitter.com/1.1"`
	UploadBaseURL string `yaml:"upload_base_url" env:"TWITTER_UPLOAD_BASE_URL" env-default:"https://upload.twitter.com/1.1"`
}

type StorageConfig struct {
	Backend string      `yaml:"backend" env:"STORAGE_BACKEND" env-default:"disk"`
	MinIO   MinIOConfig `yaml:"minio"`
	Disk    DiskConfig  `yaml:"disk"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"shared-images"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type DiskConfig struct {
	Dir          string `yaml:"dir" env:"STORAGE_DISK_DIR" env-default:"static/uploads"`
	PublicPrefix string `yaml:"public_prefix" env:"STORAGE_DISK_PUBLIC_PREFIX" env-default:"/files"`
}

type KafkaConfig struct {
	Brokers     []string `yaml:"brokers" env:"KAFKA_BROKERS"`
	EventsTopic string   `yaml:"events_topic" env:"KAFKA_EVENTS_TOPIC" env-default:"images-published"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts" env:"RETRY_ATTEMPTS" env-default:"3"`
	Delay    time.Duration `yaml:"delay" env:"RETRY_DELAY" env-default:"500ms"`
	Backoff  float64       `yaml:"backoff" env:"RETRY_BACKOFF" env-default:"2"`
}

func MustLoad() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from env: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch domain.Strategy(c.Publish.Strategy) {
	case domain.StrategyDirectPost, domain.StrategyShareLink:
	default:
		return fmt.Errorf("unknown publish strategy %q", c.Publish.Strategy)
	}

	if _, err := c.ActivePresets(); err != nil {
		return err
	}

	if c.Pipeline.Quality < 1 || c.Pipeline.Quality > 100 {
		return fmt.Errorf("pipeline quality must be in [1,100], got %d", c.Pipeline.Quality)
	}

	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline workers must be at least 1, got %d", c.Pipeline.Workers)
	}

	return nil
}

// ActivePresets returns the ordered preset list for the configured strategy:
// the full banner set for direct-post, the single share preset otherwise.
func (c *Config) ActivePresets() ([]domain.SizePreset, error) {
	if domain.Strategy(c.Publish.Strategy) == domain.StrategyDirectPost {
		return domain.ParsePresets(c.Pipeline.Presets)
	}

	preset, err := domain.ParsePreset(c.Pipeline.SharePreset)
	if err != nil {
		return nil, err
	}
	return []domain.SizePreset{preset}, nil
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: c.Retry.Attempts,
		Delay:    c.Retry.Delay,
		Backoff:  c.Retry.Backoff,
	}
}
