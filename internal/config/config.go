// Package config loads the application configuration from a TOML file.
// Configuration is split into one sub-config per subsystem and loaded once
// into a process-wide singleton.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// MainConfig holds the basic server settings.
type MainConfig struct {
	AppName string `toml:"appName"` // application name, used as log/event origin
	Host    string `toml:"host"`    // listen address, e.g. "0.0.0.0"
	Port    int    `toml:"port"`    // listen port, e.g. 8000
	Mode    string `toml:"mode"`    // "dev" or "release"
}

// MysqlConfig holds the MySQL connection settings.
type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"` // empty when auth is disabled
	Db       int    `toml:"db"`
}

// LogConfig configures zap output and lumberjack rotation.
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // directory for log files
	FileName   string `toml:"fileName"`   // log file name
	MaxSize    int    `toml:"maxSize"`    // max size of one file in MB
	MaxBackups int    `toml:"maxBackups"` // max number of rotated files to keep
	MaxAge     int    `toml:"maxAge"`     // max age of rotated files in days
	Level      string `toml:"level"`      // debug, info, warn, error
}

// KafkaConfig configures the thread-event broker.
// MessageMode selects the broker implementation: "channel" keeps events
// in-process, "kafka" publishes them to the configured topic so that every
// instance of the server sees updates made by its peers.
type KafkaConfig struct {
	MessageMode      string        `toml:"messageMode"`      // "channel" or "kafka"
	HostPort         string        `toml:"hostPort"`         // broker address, e.g. "localhost:9092"
	ThreadEventTopic string        `toml:"threadEventTopic"` // topic for thread events
	Partition        int           `toml:"partition"`
	Timeout          time.Duration `toml:"timeout"` // read/write timeout in seconds
}

// ChatListConfig tunes the chat-list refresh coalescer.
type ChatListConfig struct {
	FlushIntervalMs int `toml:"flushIntervalMs"` // collapse window, default 200ms
}

// JWTConfig holds token-auth settings.
// ClientKeyHash is a bcrypt hash of the shared client key presented by
// callers of POST /auth/token.
type JWTConfig struct {
	Secret             string `toml:"secret"`
	ClientKeyHash      string `toml:"clientKeyHash"`
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // minutes
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // hours
}

// SnowflakeConfig configures the snowflake ID node.
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 0-1023, unique per deployed instance
}

// Config aggregates all sub-configs.
type Config struct {
	MainConfig      `toml:"mainConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	ChatListConfig  `toml:"chatListConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
}

var config *Config

// LoadConfig tries the candidate paths in order and stops at the first file
// that parses.
func LoadConfig() error {
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml",
		"../../configs/config.toml",
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig returns the process-wide config, loading it on first use.
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig() // fall back to zero values when no file is present
	}
	return config
}
