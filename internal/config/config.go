package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	RPCURL           string
	RPCURL2          string
	Block            string
	RPCTimeout       time.Duration
	Output           string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	LogFile          string
	LogMaxSizeMB     int
	LogMaxBackups    int
	OtelEndpoint     string
	KafkaBrokers     []string
	KafkaTopicPrefix string
	RedisAddr        string
	RedisChannel     string
	WatchInterval    time.Duration
	WatchConfirms    uint64
	KafkaGroupID     string
	AlertChainIDs    []uint64
}

type EnvSource interface {
	Lookup(key string) (string, bool)
}

type EnvMap map[string]string

func (e EnvMap) Lookup(key string) (string, bool) {
	value, ok := e[key]
	return value, ok
}

func FromEnviron() EnvSource {
	env := make(EnvMap)
	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// Load reads the environment. RPC_URL is optional here because the CLI may
// supply it as a flag; binaries check Validate once flags are applied.
func Load(source EnvSource) (Config, error) {
	if source == nil {
		return Config{}, errors.New("env source is required")
	}

	rpcTimeout := 30 * time.Second
	if raw, ok := source.Lookup("RPC_TIMEOUT"); ok && strings.TrimSpace(raw) != "" {
		duration, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return Config{}, fmt.Errorf("invalid RPC_TIMEOUT: %w", err)
		}
		rpcTimeout = duration
	}

	logMaxSizeMB, err := parseUintEnv(source, "LOG_MAX_SIZE_MB", 100)
	if err != nil {
		return Config{}, err
	}
	logMaxBackups, err := parseUintEnv(source, "LOG_MAX_BACKUPS", 3)
	if err != nil {
		return Config{}, err
	}

	var watchInterval time.Duration
	if raw, ok := source.Lookup("WATCH_INTERVAL"); ok && strings.TrimSpace(raw) != "" {
		duration, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil || duration < 0 {
			return Config{}, fmt.Errorf("invalid WATCH_INTERVAL: %q", raw)
		}
		watchInterval = duration
	}
	watchConfirms, err := parseUintEnv(source, "WATCH_CONFIRMATIONS", 2)
	if err != nil {
		return Config{}, err
	}

	alertChainIDs, err := parseUintList(source, "ALERT_CHAIN_IDS")
	if err != nil {
		return Config{}, err
	}

	output := lookupDefault(source, "OUTPUT", "text")
	if err := ValidateOutput(output); err != nil {
		return Config{}, err
	}

	return Config{
		RPCURL:           lookupDefault(source, "RPC_URL", ""),
		RPCURL2:          lookupDefault(source, "RPC_URL_2", ""),
		Block:            lookupDefault(source, "BLOCK", "latest"),
		RPCTimeout:       rpcTimeout,
		Output:           output,
		HTTPAddr:         lookupDefault(source, "HTTP_ADDR", ":8080"),
		LogLevel:         lookupDefault(source, "LOG_LEVEL", "info"),
		LogFormat:        lookupDefault(source, "LOG_FORMAT", "text"),
		LogFile:          lookupDefault(source, "LOG_FILE", ""),
		LogMaxSizeMB:     int(logMaxSizeMB),
		LogMaxBackups:    int(logMaxBackups),
		OtelEndpoint:     lookupDefault(source, "OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		KafkaBrokers:     parseList(source, "KAFKA_BROKERS"),
		KafkaTopicPrefix: lookupDefault(source, "KAFKA_TOPIC_PREFIX", "hdrcommit-mismatch"),
		RedisAddr:        lookupDefault(source, "REDIS_ADDR", ""),
		RedisChannel:     lookupDefault(source, "REDIS_CHANNEL", "hdrcommit:mismatch"),
		WatchInterval:    watchInterval,
		WatchConfirms:    watchConfirms,
		KafkaGroupID:     lookupDefault(source, "KAFKA_GROUP_ID", "hdrcommit-alerts"),
		AlertChainIDs:    alertChainIDs,
	}, nil
}

// Validate checks the settings every binary needs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.RPCURL) == "" {
		return errors.New("missing --rpc1 or RPC_URL")
	}
	if c.RPCTimeout <= 0 {
		return errors.New("rpc timeout must be positive")
	}
	return ValidateOutput(c.Output)
}

func ValidateOutput(output string) error {
	switch output {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("unknown output format: %s (supported: text, json)", output)
}

func lookupDefault(source EnvSource, key, defaultValue string) string {
	raw, ok := source.Lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	return strings.TrimSpace(raw)
}

func parseUintEnv(source EnvSource, key string, defaultValue uint64) (uint64, error) {
	raw, ok := source.Lookup(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func parseList(source EnvSource, key string) []string {
	raw, ok := source.Lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var values []string
	for _, item := range strings.Split(raw, ",") {
		if value := strings.TrimSpace(item); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func parseUintList(source EnvSource, key string) ([]uint64, error) {
	var values []uint64
	for _, item := range parseList(source, key) {
		value, err := strconv.ParseUint(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		values = append(values, value)
	}
	return values, nil
}
