package main

import (
	"fmt"
	"strings"
	"time"

	"game_dashboard/internal/cache"
	"game_dashboard/internal/calendar"
	"game_dashboard/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database  repository.Config `mapstructure:"database"`
	Server    ServerConfig      `mapstructure:"server"`
	Auth      AuthConfig        `mapstructure:"auth"`
	Schedule  ScheduleConfig    `mapstructure:"schedule"`
	RateLimit RateLimitConfig   `mapstructure:"rateLimit"`
	Redis     cache.Config      `mapstructure:"redis"`

	LogLevel string `mapstructure:"logLevel"`
	LogFile  string `mapstructure:"logFile"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type AuthConfig struct {
	AdminToken string `mapstructure:"adminToken"`
}

type TitleConfig struct {
	Title     string `mapstructure:"title"`
	ResetDay  int    `mapstructure:"resetDay"`
	ResetTime string `mapstructure:"resetTime"`
}

type ScheduleConfig struct {
	Timezone         string        `mapstructure:"timezone"`
	DefaultResetTime string        `mapstructure:"defaultResetTime"`
	DefaultResetDay  int           `mapstructure:"defaultResetDay"`
	PassThreshold    float64       `mapstructure:"passThreshold"`
	Titles           []TitleConfig `mapstructure:"titles"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"maxRequests"`
	WindowSeconds int `mapstructure:"windowSeconds"`
}

func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFile", "")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.driver", repository.DriverSQLite)
	v.SetDefault("database.path", "dashboard.db")
	for _, key := range []string{"host", "port", "user", "password", "name"} {
		v.SetDefault("database."+key, "")
	}
	v.SetDefault("auth.adminToken", "")
	v.SetDefault("schedule.timezone", "Asia/Seoul")
	v.SetDefault("schedule.defaultResetTime", "05:00")
	v.SetDefault("schedule.defaultResetDay", 2)
	v.SetDefault("schedule.passThreshold", 0.75)
	v.SetDefault("rateLimit.maxRequests", 100)
	v.SetDefault("rateLimit.windowSeconds", 60)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttlSeconds", 600)
}

// LoadConfig reads file when set, otherwise config.yaml from the working
// directory. A missing default file is not an error.
func LoadConfig(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(configPath)
		v.SetConfigType(configFormat)
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c ScheduleConfig) Build() (*calendar.Schedule, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule timezone %q: %w", c.Timezone, err)
	}

	titles := make(map[string]calendar.TitleDefault, len(c.Titles))
	for _, t := range c.Titles {
		def := calendar.TitleDefault{ResetDay: t.ResetDay}
		if t.ResetTime != "" {
			tod, err := calendar.ParseTimeOfDay(t.ResetTime)
			if err != nil {
				return nil, fmt.Errorf("invalid reset time for %q: %w", t.Title, err)
			}
			def.ResetTime = &tod
		}
		titles[t.Title] = def
	}

	schedule := calendar.NewSchedule(loc, titles)
	if c.DefaultResetTime != "" {
		tod, err := calendar.ParseTimeOfDay(c.DefaultResetTime)
		if err != nil {
			return nil, fmt.Errorf("invalid default reset time: %w", err)
		}
		schedule.DefaultTime = tod
	}
	if c.DefaultResetDay >= 1 && c.DefaultResetDay <= 7 {
		schedule.DefaultDay = c.DefaultResetDay
	}
	return schedule, nil
}
