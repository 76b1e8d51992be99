package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. Production gets JSON output,
// everything else a colored console encoder.
func New(env string) *zap.Logger {
	var config zap.Config

	if isProdLike(env) {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stdout"}

	log, err := config.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return log
}

// isProdLike accepts the same APP_ENV values the config package treats as
// production, so a prod deploy never gets the dev console encoder.
func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}
