// Package logger adapts the global zerolog logger to the logging interfaces of third-party libraries.
package logger

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Logger implements retryablehttp.Logger and retryablehttp.LeveledLogger. Messages of the HTTP client are mostly
// noise for users, hence everything but errors is logged at trace level.
type Logger struct{}

func (*Logger) Printf(format string, v ...interface{}) {
	log.Trace().Msgf(format, v...)
}

func (*Logger) Error(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(fields(keysAndValues)).Msg(msg)
}

func (*Logger) Info(msg string, keysAndValues ...interface{}) {
	log.Trace().Fields(fields(keysAndValues)).Msg(msg)
}

func (*Logger) Debug(msg string, keysAndValues ...interface{}) {
	log.Trace().Fields(fields(keysAndValues)).Msg(msg)
}

func (*Logger) Warn(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(fields(keysAndValues)).Msg(msg)
}

// fields converts alternating keys and values into a map. A trailing key without value is dropped.
func fields(keysAndValues []interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		m[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return m
}
