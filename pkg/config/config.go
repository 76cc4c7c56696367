package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Room   RoomConfig   `mapstructure:"room"`
	Rounds RoundsConfig `mapstructure:"rounds"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// PublicURL 用於產生加入房間的 QR code
	PublicURL string `mapstructure:"public_url"`
}

type DBConfig struct {
	// Driver 為 postgres 或 memory
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Port     int    `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type RoomConfig struct {
	TxAttempts    int           `mapstructure:"tx_attempts"`
	RejoinTimeout time.Duration `mapstructure:"rejoin_timeout"`
	RateLimit     float64       `mapstructure:"rate_limit"`
	RateBurst     int           `mapstructure:"rate_burst"`
}

type RoundsConfig struct {
	// SeedFile 啟動時匯入的回合 JSON 檔，留空則不匯入
	SeedFile string `mapstructure:"seed_file"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.public_url", "http://localhost:5173")
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "party_quiz")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("room.tx_attempts", 6)
	v.SetDefault("room.rejoin_timeout", 2500*time.Millisecond)
	v.SetDefault("room.rate_limit", 10.0)
	v.SetDefault("room.rate_burst", 20)
	v.SetDefault("rounds.seed_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// Load 讀取 ./pkg/config/config.yaml，環境變數 PARTYQUIZ_* 可以覆蓋設定
func Load() (*Config, error) {
	return LoadFrom("./pkg/config")
}

func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("PARTYQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("jwt.secret is required")
	}
	if err := validateOrigins(config.Server.AllowedOrigins); err != nil {
		return nil, err
	}
	return &config, nil
}

// validateOrigins 要求至少一個來源，"*" 表示接受所有來源
func validateOrigins(origins []string) error {
	if len(origins) == 0 {
		return errors.New("server.allowed_origins must list at least one origin, use \"*\" to allow all")
	}
	for _, origin := range origins {
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("server.allowed_origins: %q must start with http:// or https://", origin)
		}
	}
	return nil
}
