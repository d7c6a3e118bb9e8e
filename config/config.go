package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Server struct {
		Port string `mapstructure:"port"`
		// Environment switches cookie hardening: "local" keeps the refresh
		// token cookie usable over plain HTTP, anything else marks it Secure.
		Environment string `mapstructure:"environment"`
	} `mapstructure:"server"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	JWT struct {
		SecretKey             string `mapstructure:"secret_key"`
		AccessTokenTTLMinutes int    `mapstructure:"access_token_ttl_minutes"`
		RefreshTokenTTLDays   int    `mapstructure:"refresh_token_ttl_days"`
	} `mapstructure:"jwt"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	viper.SetDefault("server.environment", "local")
	viper.SetDefault("jwt.access_token_ttl_minutes", 600) // 10 hours
	viper.SetDefault("jwt.refresh_token_ttl_days", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	if AppConfig.JWT.SecretKey == "" {
		log.Fatal("jwt.secret_key must be configured; refusing to start without a signing key")
	}
}
