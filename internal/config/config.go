package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
)

const (
	envListenAddr           = "LISTEN_ADDR"
	envLogLevel             = "LOG_LEVEL"
	envLogFormat            = "LOG_FORMAT"
	envStaticDir            = "STATIC_DIR"
	envShutdownTimeout      = "SHUTDOWN_TIMEOUT"
	envAllowedOrigins       = "ALLOWED_ORIGINS"
	envSendBuffer           = "SEND_BUFFER"
	envMaxMessageBytes      = "MAX_MESSAGE_BYTES"
	envMaxMessagesPerSecond = "MAX_MESSAGES_PER_SECOND"
)

const (
	DefaultListenAddr           = ":8080"
	DefaultStaticDir            = "./static"
	DefaultShutdownTimeout      = 5 * time.Second
	DefaultSendBuffer           = 64
	DefaultMaxMessageBytes      = 64 * 1024
	DefaultMaxMessagesPerSecond = 50
)

type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

type Config struct {
	ListenAddr      string
	LogLevel        zerolog.Level
	LogFormat       LogFormat
	StaticDir       string
	ShutdownTimeout time.Duration

	// AllowedOrigins restricts the Origin header on /ws. Empty allows all.
	AllowedOrigins []string

	// SendBuffer is the number of outbound messages queued per connection
	// before the connection is treated as dead.
	SendBuffer           int
	MaxMessageBytes      int64
	MaxMessagesPerSecond int

	// ICEServers is handed to browsers; the server never contacts them.
	ICEServers []webrtc.ICEServer
}

func Load(args []string) (Config, error) {
	return load(os.LookupEnv, args)
}

func load(lookup func(string) (string, bool), args []string) (Config, error) {
	sendBuffer, err := envIntOrDefault(lookup, envSendBuffer, DefaultSendBuffer)
	if err != nil {
		return Config{}, err
	}
	maxMessageBytes, err := envIntOrDefault(lookup, envMaxMessageBytes, DefaultMaxMessageBytes)
	if err != nil {
		return Config{}, err
	}
	maxMessagesPerSecond, err := envIntOrDefault(lookup, envMaxMessagesPerSecond, DefaultMaxMessagesPerSecond)
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := envDurationOrDefault(lookup, envShutdownTimeout, DefaultShutdownTimeout)
	if err != nil {
		return Config{}, err
	}

	var (
		listenAddr     string
		logLevel       string
		logFormat      string
		staticDir      string
		allowedOrigins string
	)

	fs := flag.NewFlagSet("duet", flag.ContinueOnError)
	fs.StringVar(&listenAddr, "listen-addr", envOrDefault(lookup, envListenAddr, DefaultListenAddr), "HTTP listen address")
	fs.StringVar(&logLevel, "log-level", envOrDefault(lookup, envLogLevel, "info"), "log level (trace, debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", envOrDefault(lookup, envLogFormat, string(LogFormatConsole)), "log format (console, json)")
	fs.StringVar(&staticDir, "static-dir", envOrDefault(lookup, envStaticDir, DefaultStaticDir), "directory served at /")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", shutdownTimeout, "graceful shutdown timeout")
	fs.StringVar(&allowedOrigins, "allowed-origins", envOrDefault(lookup, envAllowedOrigins, ""), "comma-separated list of allowed WebSocket origins")
	fs.IntVar(&sendBuffer, "send-buffer", sendBuffer, "outbound messages buffered per connection")
	fs.IntVar(&maxMessageBytes, "max-message-bytes", maxMessageBytes, "largest inbound signaling message")
	fs.IntVar(&maxMessagesPerSecond, "max-messages-per-second", maxMessagesPerSecond, "inbound message rate per connection, 0 disables")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ListenAddr:           listenAddr,
		StaticDir:            staticDir,
		ShutdownTimeout:      shutdownTimeout,
		AllowedOrigins:       splitCommaSeparated(allowedOrigins),
		SendBuffer:           sendBuffer,
		MaxMessageBytes:      int64(maxMessageBytes),
		MaxMessagesPerSecond: maxMessagesPerSecond,
	}

	cfg.LogLevel, err = zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(logLevel)))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", envLogLevel, err)
	}
	cfg.LogFormat, err = parseLogFormat(logFormat)
	if err != nil {
		return Config{}, err
	}

	if cfg.SendBuffer <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", envSendBuffer, cfg.SendBuffer)
	}
	if cfg.MaxMessageBytes <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", envMaxMessageBytes, cfg.MaxMessageBytes)
	}
	if cfg.MaxMessagesPerSecond < 0 {
		return Config{}, fmt.Errorf("%s must not be negative, got %d", envMaxMessagesPerSecond, cfg.MaxMessagesPerSecond)
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, errors.New("shutdown timeout must be positive")
	}

	cfg.ICEServers, err = parseICEServersFromValues(
		envOrDefault(lookup, envICEServersJSON, ""),
		envOrDefault(lookup, envStunURLs, ""),
		envOrDefault(lookup, envTurnURLs, ""),
		envOrDefault(lookup, envTurnUsername, ""),
		envOrDefault(lookup, envTurnCredential, ""),
	)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envOrDefault(lookup func(string) (string, bool), key, fallback string) string {
	if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envIntOrDefault(lookup func(string) (string, bool), key string, fallback int) (int, error) {
	raw := envOrDefault(lookup, key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func envDurationOrDefault(lookup func(string) (string, bool), key string, fallback time.Duration) (time.Duration, error) {
	raw := envOrDefault(lookup, key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parseLogFormat(raw string) (LogFormat, error) {
	switch LogFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case LogFormatConsole:
		return LogFormatConsole, nil
	case LogFormatJSON:
		return LogFormatJSON, nil
	default:
		return "", fmt.Errorf("%s: unsupported value %q", envLogFormat, raw)
	}
}

func splitCommaSeparated(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
