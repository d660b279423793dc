package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SetLogLevel applies a textual level such as "debug" or "warn" globally.
// Unknown levels leave the current global level untouched.
func SetLogLevel(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parsing log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// NewLogger returns a console logger for a component, writing to stdout.
func NewLogger(component string) zerolog.Logger {
	return NewLoggerTo(component, os.Stdout)
}

// NewLoggerTo returns a console logger for a component writing to w.
// Known components get a colored prefix.
func NewLoggerTo(component string, w io.Writer) zerolog.Logger {
	color, ok := componentColors[component]
	if !ok {
		color = ColorReset
	}

	writer := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    w != os.Stdout,
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return fmt.Sprintf("%s[%s]%s", color, component, ColorReset)
			}
			return fmt.Sprintf("%s[%s]%s %v", color, component, ColorReset, i)
		},
	}

	return zerolog.New(writer).With().Timestamp().Str("component", component).Logger()
}
