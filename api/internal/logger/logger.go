package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New собирает логгер: level - zerolog-уровень ("debug", "info", ...),
// pretty включает цветной консольный вывод для локальной разработки.
func New(level string, pretty bool) zerolog.Logger {
	return build(os.Stdout, level, pretty)
}

func build(out io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldInteger = true

	w := out
	if pretty {
		w = console(out)
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "avbot").
		Logger()
}

func console(out io.Writer) zerolog.ConsoleWriter {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05 MST",
	}

	// цвета уровней
	output.FormatLevel = func(i interface{}) string {
		var color, level string
		if l, ok := i.(string); ok {
			level = strings.ToUpper(l)
			switch level {
			case "DEBUG":
				color = "\x1b[32m"
			case "INFO":
				color = "\x1b[34m"
			case "WARN":
				color = "\x1b[33m"
			case "ERROR", "FATAL":
				color = "\x1b[31m"
			default:
				color = "\x1b[0m"
			}
		}
		return fmt.Sprintf("%s| %-6s|\x1b[0m", color, level)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("\x1b[36m%s:\x1b[0m", i)
	}
	return output
}
