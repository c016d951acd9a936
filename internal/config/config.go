package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Engine   EngineConfig   `json:"engine"`
}

type ServerConfig struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	MetricsAddr string `json:"metrics_addr"`
	Env         string `json:"env"`
}

type DatabaseConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password"`
	DBName         string `json:"dbname"`
	SSLMode        string `json:"sslmode"`
	MigrationsPath string `json:"migrations_path"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// EngineConfig carries the cart engine's timing knobs. Durations are
// milliseconds in the file; zero values fall back to the reference timings.
type EngineConfig struct {
	ClearArmTimeoutMS      int `json:"clear_arm_timeout_ms"`
	MessageTTLMS           int `json:"message_ttl_ms"`
	SessionIdleTimeoutMin  int `json:"session_idle_timeout_min"`
	SnapshotRefreshSeconds int `json:"snapshot_refresh_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	config.Engine.applyDefaults()

	return &config, nil
}

func (c *EngineConfig) applyDefaults() {
	if c.ClearArmTimeoutMS <= 0 {
		c.ClearArmTimeoutMS = 2500
	}
	if c.MessageTTLMS <= 0 {
		c.MessageTTLMS = 3500
	}
	if c.SessionIdleTimeoutMin <= 0 {
		c.SessionIdleTimeoutMin = 120
	}
	if c.SnapshotRefreshSeconds <= 0 {
		c.SnapshotRefreshSeconds = 30
	}
}

func (c *EngineConfig) ClearArmTimeout() time.Duration {
	return time.Duration(c.ClearArmTimeoutMS) * time.Millisecond
}

func (c *EngineConfig) MessageTTL() time.Duration {
	return time.Duration(c.MessageTTLMS) * time.Millisecond
}

func (c *EngineConfig) SessionIdleTimeout() time.Duration {
	return time.Duration(c.SessionIdleTimeoutMin) * time.Minute
}

func (c *EngineConfig) SnapshotRefreshInterval() time.Duration {
	return time.Duration(c.SnapshotRefreshSeconds) * time.Second
}

func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}
