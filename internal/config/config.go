// Package config
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	CounterSourceGopsutil = "gopsutil"
	CounterSourceProcfs   = "procfs"
)

type Config struct {
	Address string `validate:"required"`

	SpeedInterval  time.Duration `validate:"gt=0"`
	MaxSpeedBytes  float64       `validate:"gt=0"`
	HistorySize    int           `validate:"gt=0"`
	CounterSource  string        `validate:"oneof=gopsutil procfs"`
	ProcNetDevPath string        `validate:"required"`
	IncludeIfaces  []string
	ExcludeIfaces  []string

	PrimaryInterface     string        `validate:"required"`
	PublicIPURL          string        `validate:"required,url"`
	PublicIPTimeout      time.Duration `validate:"gt=0"`
	PingHost             string        `validate:"required"`
	PingTimeout          time.Duration `validate:"gt=0"`
	PingFairThreshold    time.Duration `validate:"gte=0"`
	ProbeRefreshInterval time.Duration `validate:"gte=0"`

	ProcessInterval    time.Duration `validate:"gt=0"`
	ProcessToolTimeout time.Duration `validate:"gt=0"`
	ProcessTopN        int           `validate:"gt=0"`
	TrafficTool        string        `validate:"required"`
	ConnectionTool     string        `validate:"required"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`

	JWTSecret      string
	AllowedOrigins []string
}

var validate = validator.New()

func Load() *Config {
	godotenv.Load()

	return &Config{
		Address: getEnv("HTTP_ADDR", ":3000"),

		SpeedInterval:  getEnvDuration("SPEED_INTERVAL", time.Second),
		MaxSpeedBytes:  getEnvFloat("MAX_SPEED_BYTES", 10*1024*1024),
		HistorySize:    getEnvInt("HISTORY_SIZE", 20),
		CounterSource:  getEnv("COUNTER_SOURCE", CounterSourceGopsutil),
		ProcNetDevPath: getEnv("PROC_NET_DEV", "/proc/net/dev"),
		IncludeIfaces:  getEnvList("INTERFACE_INCLUDE", nil),
		ExcludeIfaces:  getEnvList("INTERFACE_EXCLUDE", []string{"lo*"}),

		PrimaryInterface:     getEnv("PRIMARY_INTERFACE", "en0"),
		PublicIPURL:          getEnv("PUBLIC_IP_URL", "https://api.ipify.org?format=text"),
		PublicIPTimeout:      getEnvDuration("PUBLIC_IP_TIMEOUT", 5*time.Second),
		PingHost:             getEnv("PING_HOST", "8.8.8.8"),
		PingTimeout:          getEnvDuration("PING_TIMEOUT", 2*time.Second),
		PingFairThreshold:    getEnvDuration("PING_FAIR_THRESHOLD", 0),
		ProbeRefreshInterval: getEnvDuration("PROBE_REFRESH_INTERVAL", 0),

		ProcessInterval:    getEnvDuration("PROCESS_INTERVAL", 3*time.Second),
		ProcessToolTimeout: getEnvDuration("PROCESS_TOOL_TIMEOUT", 2*time.Second),
		ProcessTopN:        getEnvInt("PROCESS_TOP_N", 5),
		TrafficTool:        getEnv("TRAFFIC_TOOL", "nettop"),
		ConnectionTool:     getEnv("CONNECTION_TOOL", "lsof"),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", nil),
	}
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config %s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(raw); err == nil && parsed >= 0 {
		return parsed
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
