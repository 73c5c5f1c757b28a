package container

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ConsumerConfig configures the analytics consumer process.
type ConsumerConfig struct {
	RedisAddr string `mapstructure:"redis_addr"`
	LogFormat string `mapstructure:"log_format"`
}

// LoadConsumerConfig reads consumer.yaml from the working directory or ./configs
// when present, then applies SHORTENER_* environment overrides.
func LoadConsumerConfig(v *viper.Viper) (*ConsumerConfig, error) {
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("log_format", "console")

	v.SetEnvPrefix("shortener")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("consumer")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read consumer config: %w", err)
		}
	}

	var cfg ConsumerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode consumer config: %w", err)
	}

	return &cfg, nil
}

// Options converts the consumer config into the shared Options.
func (c *ConsumerConfig) Options() *Options {
	return &Options{
		RedisAddr: c.RedisAddr,
		LogFormat: c.LogFormat,
		Events:    EventsRedis,
	}
}
