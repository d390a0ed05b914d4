package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestLogger_Levels(t *testing.T) {
	orig := log.Logger
	defer func() { log.Logger = orig }()

	buf := &bytes.Buffer{}
	log.Logger = zerolog.New(buf).Level(zerolog.DebugLevel)

	l := &Logger{}
	l.Info("performing request", "method", "GET")
	assert.Empty(t, buf.String(), "info is logged at trace level")

	l.Error("request failed", "url", "https://scan.example.com")
	assert.Contains(t, buf.String(), `"message":"request failed"`)
	assert.Contains(t, buf.String(), `"url":"https://scan.example.com"`)
}

func TestFields(t *testing.T) {
	got := fields([]interface{}{"method", "GET", "retry", 2, "dangling"})
	assert.Equal(t, map[string]interface{}{"method": "GET", "retry": 2}, got)
}
