package logger

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"quizduel/internal/config"
)

// New monta o logger do processo. Em modo de desenvolvimento usa o encoder de
// console, senão JSON de produção. O nível vem de cfg.Level.
func New(cfg config.LogConfig) (*zap.SugaredLogger, error) {
	level, err := zap.ParseAtomicLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, errors.Wrapf(err, "parse log level %q", cfg.Level)
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = level

	l, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build zap logger")
	}
	return l.Sugar(), nil
}
