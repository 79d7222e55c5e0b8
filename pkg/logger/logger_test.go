package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func TestNew_NivelExplicito(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "debug"})
	assert.Equal(t, zerolog.DebugLevel, l.Zerolog().GetLevel())
}

func TestNew_NivelDesconocidoCaeEnInfo(t *testing.T) {
	casos := []string{"", "verboso", "TRACE2"}
	for _, nivel := range casos {
		l := logger.New(logger.Config{Env: "production", Level: nivel})
		assert.Equal(t, zerolog.InfoLevel, l.Zerolog().GetLevel(), "nivel %q", nivel)
	}
}

func TestNew_NivelInsensibleAMayusculas(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "WARN"})
	assert.Equal(t, zerolog.WarnLevel, l.Zerolog().GetLevel())
}
