package progress

import (
	"context"
	"log/slog"
)

// Slog forwards entries to a structured logger. The category is attached as
// the "category" attribute and picks the level.
func Slog(logger *slog.Logger) Sink {
	if logger == nil {
		return Discard
	}
	return slogSink{logger: logger}
}

type slogSink struct {
	logger *slog.Logger
}

func (s slogSink) Emit(e Entry) {
	s.logger.Log(context.Background(), Level(e.Category), e.Message, slog.String("category", string(e.Category)))
}

// Level maps a category to a slog level.
func Level(c Category) slog.Level {
	switch c {
	case Warning, Missing:
		return slog.LevelWarn
	case Fatal:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
