// Package config loads the supervisor configuration from the environment.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Discord  DiscordConfig
	Factorio FactorioConfig
	Logging  LoggingConfig
}

type DiscordConfig struct {
	Token           string
	StatusChannelID string
	UpdateInterval  time.Duration
	IdleTimeout     time.Duration
}

type FactorioConfig struct {
	ContainerName string
	RCONHost      string
	RCONPort      int
	RCONPassword  string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

// RCONAddress returns the host:port the RCON client should dial.
func (f FactorioConfig) RCONAddress() string {
	return fmt.Sprintf("%s:%d", f.RCONHost, f.RCONPort)
}

// Load reads configuration from the environment and validates it.
// Missing or invalid required values are startup-fatal for the caller.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("UPDATE_INTERVAL", 60)
	v.SetDefault("IDLE_TIMEOUT_SECONDS", 60)
	v.SetDefault("FACTORIO_CONTAINER", "factorio")
	v.SetDefault("FACTORIO_HOST", "localhost")
	v.SetDefault("FACTORIO_RCON_PORT", 27015)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")

	cfg := &Config{
		Discord: DiscordConfig{
			Token:           v.GetString("DISCORD_TOKEN"),
			StatusChannelID: v.GetString("STATUS_CHANNEL_ID"),
			UpdateInterval:  time.Duration(v.GetInt("UPDATE_INTERVAL")) * time.Second,
			IdleTimeout:     time.Duration(v.GetInt("IDLE_TIMEOUT_SECONDS")) * time.Second,
		},
		Factorio: FactorioConfig{
			ContainerName: v.GetString("FACTORIO_CONTAINER"),
			RCONHost:      v.GetString("FACTORIO_HOST"),
			RCONPort:      v.GetInt("FACTORIO_RCON_PORT"),
			RCONPassword:  v.GetString("FACTORIO_RCON_PASSWORD"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN must be set in the environment")
	}

	id, err := strconv.ParseUint(c.Discord.StatusChannelID, 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("STATUS_CHANNEL_ID must be set to a non-zero channel id")
	}

	if c.Discord.UpdateInterval <= 0 {
		return fmt.Errorf("UPDATE_INTERVAL must be a positive number of seconds")
	}
	if c.Discord.IdleTimeout <= 0 {
		return fmt.Errorf("IDLE_TIMEOUT_SECONDS must be a positive number of seconds")
	}

	if c.Factorio.RCONPassword == "" {
		return fmt.Errorf("FACTORIO_RCON_PASSWORD must be set in the environment")
	}
	if c.Factorio.RCONPort <= 0 || c.Factorio.RCONPort > 65535 {
		return fmt.Errorf("FACTORIO_RCON_PORT must be a valid port number")
	}
	if c.Factorio.ContainerName == "" {
		return fmt.Errorf("FACTORIO_CONTAINER must not be empty")
	}

	return nil
}
