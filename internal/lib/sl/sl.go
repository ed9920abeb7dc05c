package sl

import (
	"log/slog"
	"strings"
)

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

func Module(mod string) slog.Attr {
	return slog.String("module", mod)
}

// Secret masks all but the first and last two characters of the value.
func Secret(key, value string) slog.Attr {
	if len(value) <= 6 {
		return slog.String(key, strings.Repeat("*", len(value)))
	}
	return slog.String(key, value[:2]+strings.Repeat("*", len(value)-4)+value[len(value)-2:])
}
