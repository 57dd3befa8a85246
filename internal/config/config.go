package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Payment  PaymentConfig
	Media    MediaConfig
	SMTP     SMTPConfig
}

type ServerConfig struct {
	Port           int    `mapstructure:"port"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
	BaseURL        string `mapstructure:"base_url"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// PaymentConfig holds payment provider credentials. Loaded from the
// environment only, never from the config file.
type PaymentConfig struct {
	AccessToken string `envconfig:"PAYMENT_ACCESS_TOKEN" required:"true"`
	BaseURL     string `envconfig:"PAYMENT_BASE_URL"`
}

// MediaConfig holds media store credentials. Environment only.
type MediaConfig struct {
	CloudName string `envconfig:"MEDIA_CLOUD_NAME" required:"true"`
	APIKey    string `envconfig:"MEDIA_API_KEY" required:"true"`
	APISecret string `envconfig:"MEDIA_API_SECRET" required:"true"`
	BaseURL   string `envconfig:"MEDIA_BASE_URL"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config.Payment); err != nil {
		return nil, fmt.Errorf("failed to load payment credentials: %w", err)
	}
	if err := envconfig.Process("", &config.Media); err != nil {
		return nil, fmt.Errorf("failed to load media credentials: %w", err)
	}

	return &config, nil
}
