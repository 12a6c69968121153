package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

// Init инициализирует глобальный логгер
// env: "development" - текст, иначе JSON; "test" - только ошибки
func Init(env string) {
	initWith(env, os.Stdout)
}

func initWith(env string, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: env != "test",
	}

	var handler slog.Handler
	switch env {
	case "development":
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	case "test":
		opts.Level = slog.LevelError
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

func get() *slog.Logger {
	once.Do(func() {
		if log == nil {
			Init("development")
		}
	})
	return log
}

func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

// Fatal логирует fatal ошибку и завершает программу
func Fatal(msg string, args ...any) {
	get().Error(msg, args...)
	os.Exit(1)
}

// StorageLog логирует операцию с объектным хранилищем
func StorageLog(operation, key string, err error) {
	fields := []any{
		"operation", operation,
		"key", key,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		get().Warn("storage operation failed", fields...)
	} else {
		get().Debug("storage operation", fields...)
	}
}

// EventLog логирует доставку события (websocket, amqp)
func EventLog(channel, event string, err error) {
	fields := []any{
		"channel", channel,
		"event", event,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		get().Warn("event delivery failed", fields...)
	} else {
		get().Debug("event delivered", fields...)
	}
}
