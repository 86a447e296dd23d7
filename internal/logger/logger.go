package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aliskhannn/trivia-bot/internal/config"
)

// New builds the application logger: JSON at info level in production,
// console output at debug level everywhere else.
func New(cfg *config.Config) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)

	if cfg.Env == "production" {
		zc := zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "time"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		log, err = zc.Build()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	return log.With(zap.String("env", cfg.Env)), nil
}
