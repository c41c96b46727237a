package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Map      MapConfig
	Worker   WorkerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	LocationsTTL time.Duration
	CategoryTTL  time.Duration
}

// MapConfig carries the map surface defaults and the city-center fallback
// used when geolocation is unavailable.
type MapConfig struct {
	DefaultLat  float64
	DefaultLng  float64
	DefaultZoom int
	FallbackLat float64
	FallbackLng float64
	TileURL     string
}

type WorkerConfig struct {
	Enabled      bool
	WarmInterval time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			LocationsTTL: time.Duration(viper.GetInt("LOCATIONS_CACHE_TTL")) * time.Second,
			CategoryTTL:  time.Duration(viper.GetInt("CATEGORY_CACHE_TTL")) * time.Second,
		},
		Map: MapConfig{
			DefaultLat:  viper.GetFloat64("MAP_DEFAULT_LAT"),
			DefaultLng:  viper.GetFloat64("MAP_DEFAULT_LNG"),
			DefaultZoom: viper.GetInt("MAP_DEFAULT_ZOOM"),
			FallbackLat: viper.GetFloat64("MAP_FALLBACK_LAT"),
			FallbackLng: viper.GetFloat64("MAP_FALLBACK_LNG"),
			TileURL:     viper.GetString("MAP_TILE_URL"),
		},
		Worker: WorkerConfig{
			Enabled:      viper.GetBool("WORKER_ENABLED"),
			WarmInterval: time.Duration(viper.GetInt("WORKER_WARM_INTERVAL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Set default values if not provided
	if cfg.Cache.LocationsTTL == 0 {
		cfg.Cache.LocationsTTL = 5 * time.Minute
	}
	if cfg.Cache.CategoryTTL == 0 {
		cfg.Cache.CategoryTTL = 5 * time.Minute
	}
	if cfg.Map.DefaultLat == 0 {
		cfg.Map.DefaultLat = 59.3293
	}
	if cfg.Map.DefaultLng == 0 {
		cfg.Map.DefaultLng = 18.0686
	}
	if cfg.Map.DefaultZoom == 0 {
		cfg.Map.DefaultZoom = 13
	}
	if cfg.Map.FallbackLat == 0 {
		cfg.Map.FallbackLat = 59.33024608264878
	}
	if cfg.Map.FallbackLng == 0 {
		cfg.Map.FallbackLng = 18.058248426091545
	}
	if cfg.Map.TileURL == "" {
		cfg.Map.TileURL = "https://api.maptiler.com/maps/streets/{z}/{x}/{y}.png"
	}
	if cfg.Worker.WarmInterval == 0 {
		cfg.Worker.WarmInterval = 5 * time.Minute
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
