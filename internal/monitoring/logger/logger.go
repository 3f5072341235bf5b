package logger

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yanet-platform/coalesce/pkg/coalesce"
)

// New creates a new logger instance with the given configuration. A nil
// configuration selects the defaults.
func New(ctx context.Context, config *Config) (*zap.Logger, error) {
	if config == nil {
		config = &Config{}
		config.Default()
	}
	encoding := coalesce.Or(config.Encoding, "console")

	// Construct zap configuration.
	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(config.Level),
		Encoding:          encoding,
		DisableStacktrace: true,
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "name",
			CallerKey:      "caller",
			MessageKey:     "msg",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		// Stdout carries the resolved settings.
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	// Add hostname to the logger.
	hostname, err := os.Hostname()
	if err == nil {
		logger = logger.With(zap.String("host", hostname))
	} else {
		logger.Error("Could not detect hostname", zap.Error(err))
	}

	// If OTEL exporter is configured, add exporter to the logger.
	if config.OTEL != nil {
		otelCore, err := setupOTELExporter(ctx, config.OTEL)
		if err != nil {
			return nil, fmt.Errorf("failed to setup OTEL exporter: %w", err)
		}

		logger = logger.WithOptions(
			zap.WrapCore(func(core zapcore.Core) zapcore.Core {
				return zapcore.NewTee(core, otelCore)
			}),
		)
	}

	return logger, nil
}
