package logging

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger is shared by concurrent probes and starts out silent
var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "ASSISTLINK_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks ASSISTLINK_LOG_LEVEL.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger.Store(zap.NewNop())
		return nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Store(built)

	return nil
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
// A nil logger silences output.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// Unknown level - use info when explicitly set to something
		return zapcore.InfoLevel
	}
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	return logger.Load()
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogProbe logs the outcome of a single liveness probe
func LogProbe(baseURL string, live bool, latency time.Duration, err error) {
	fields := []zap.Field{
		zap.String("server_url", baseURL),
		zap.Bool("live", live),
		zap.Duration("latency", latency),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	Debug("Probe finished", fields...)
}

// LogDiscovery logs the result of one discovery pass
func LogDiscovery(serverURL string, probed int, elapsed time.Duration) {
	if serverURL == "" {
		Info("No server available",
			zap.Int("probed", probed),
			zap.Duration("elapsed", elapsed),
		)
		return
	}

	Info("Server discovered",
		zap.String("server_url", serverURL),
		zap.Int("probed", probed),
		zap.Duration("elapsed", elapsed),
	)
}

// LogRequest logs a completed discovery-backed request
func LogRequest(method, target string, statusCode int, elapsed time.Duration) {
	Info("HTTP request completed",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status_code", statusCode),
		zap.Duration("elapsed", elapsed),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = GetLogger().Sync()
}
