// Package logging builds the process logger.
package logging

import "go.uber.org/zap"

// New returns a console-encoded sugared logger. Debug mode uses the
// development config; otherwise production at warn level, so scan output
// on stdout stays clean. The logger is passed down explicitly rather than
// held as a package global.
func New(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
