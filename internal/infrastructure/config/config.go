package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Log         LogConfig       `mapstructure:"log"`
	Data        DataConfig      `mapstructure:"data"`
	Model       ModelConfig     `mapstructure:"model"`
	Server      ServerConfig    `mapstructure:"server"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Queue       QueueConfig     `mapstructure:"queue"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Client      ClientConfig    `mapstructure:"client"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// LogConfig 日誌設定
type LogConfig struct {
	Dir string `mapstructure:"dir"`
}

// DataConfig 資料檔案設定
type DataConfig struct {
	TrainPath       string `mapstructure:"train_path"`
	TestPath        string `mapstructure:"test_path"`
	OutputDir       string `mapstructure:"output_dir"`
	TimestampLayout string `mapstructure:"timestamp_layout"`
	// UseTestVocabulary 以測試集豐富特徵空間（不提供標籤）
	UseTestVocabulary bool `mapstructure:"use_test_vocabulary"`
}

// ModelConfig 分類模型設定
type ModelConfig struct {
	NgramMin     int     `mapstructure:"ngram_min"`
	NgramMax     int     `mapstructure:"ngram_max"`
	StripAccents bool    `mapstructure:"strip_accents"`
	Loss         string  `mapstructure:"loss"`
	C            float64 `mapstructure:"c"`
	Tol          float64 `mapstructure:"tol"`
	MaxIter      int     `mapstructure:"max_iter"`
	Seed         int64   `mapstructure:"seed"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	// RequestTimeout 單一請求的處理上限
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// CacheConfig 預測快取設定
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Redis           RedisConfig   `mapstructure:"redis"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// QueueConfig 預測隊列設定
type QueueConfig struct {
	Workers int `mapstructure:"workers"`
	MaxSize int `mapstructure:"max_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ClientConfig 預測 API 客戶端設定
type ClientConfig struct {
	ServerURL string        `mapstructure:"server_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LoadConfig 載入設定。configPath 為空時只使用 .env、環境變數與預設值。
func LoadConfig(configPath string) (*Config, error) {
	// 加載 .env 文件，不存在時略過
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v, err := newViper(configPath)
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// Watch 監看設定檔，內容變更且驗證通過時呼叫 onChange；回傳的函式停止監看
func Watch(configPath string, onChange func(*Config)) (func(), error) {
	if configPath == "" {
		return nil, errors.New("config watch requires a config file")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	// 監看所在目錄，編輯器以 rename 方式存檔時仍能收到事件
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", configPath, err)
	}

	target := filepath.Clean(configPath)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				v, err := newViper(configPath)
				if err != nil {
					continue
				}
				cfg, err := decode(v)
				if err != nil {
					continue
				}
				onChange(cfg)
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			watcher.Close()
		})
	}
	return stop, nil
}

// newViper 建立已套用預設值、環境變數與設定檔的 viper 實例
func newViper(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("data.train_path", "TRAIN_PATH")
	_ = v.BindEnv("data.test_path", "TEST_PATH")
	_ = v.BindEnv("data.output_dir", "OUTPUT_DIR")
	_ = v.BindEnv("cache.enabled", "CACHE_ENABLED")
	_ = v.BindEnv("cache.backend", "CACHE_BACKEND")
	_ = v.BindEnv("cache.redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("cache.redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("client.server_url", "CLASSIFIER_SERVER_URL")

	// 讀取設定檔
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}
	return v, nil
}

// decode 解析並驗證設定
func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "cuisine-classifier")
	v.SetDefault("log_level", "info")
	v.SetDefault("log.dir", "")

	// 資料設定
	v.SetDefault("data.train_path", "_data/train.json")
	v.SetDefault("data.test_path", "_data/test.json")
	v.SetDefault("data.output_dir", "_data")
	v.SetDefault("data.timestamp_layout", "060102_150405")
	v.SetDefault("data.use_test_vocabulary", true)

	// 模型設定
	v.SetDefault("model.ngram_min", 1)
	v.SetDefault("model.ngram_max", 4)
	v.SetDefault("model.strip_accents", false)
	v.SetDefault("model.loss", "hinge")
	v.SetDefault("model.c", math.Pow(10, 0.1))
	v.SetDefault("model.tol", 1e-4)
	v.SetDefault("model.max_iter", 1000)
	v.SetDefault("model.seed", 1)

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.max_body_bytes", 10<<20) // 10MB

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_size", 10000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.db", 0)

	// 隊列設定
	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.max_size", 100)

	// 限流設定
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "0s")

	// 客戶端設定
	v.SetDefault("client.server_url", "http://localhost:8080")
	v.SetDefault("client.timeout", "30s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證模型設定
	if config.Model.NgramMin < 1 || config.Model.NgramMax < config.Model.NgramMin {
		return fmt.Errorf("invalid ngram range (%d, %d)", config.Model.NgramMin, config.Model.NgramMax)
	}
	if config.Model.Loss != "hinge" && config.Model.Loss != "squared_hinge" {
		return fmt.Errorf("unsupported loss %q", config.Model.Loss)
	}
	if config.Model.C <= 0 {
		return fmt.Errorf("model c must be positive")
	}
	if config.Model.Tol <= 0 {
		return fmt.Errorf("model tol must be positive")
	}
	if config.Model.MaxIter <= 0 {
		return fmt.Errorf("model max_iter must be positive")
	}
	if config.Data.TimestampLayout == "" {
		return fmt.Errorf("data timestamp layout is required")
	}

	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.Backend != "memory" && config.Cache.Backend != "redis" {
			return fmt.Errorf("unsupported cache backend %q", config.Cache.Backend)
		}
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證隊列設定
	if config.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}
	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}
