package logger

import (
	"log/slog"
	"time"
)

// Commands slower than this are logged at warn level.
const slowCommandThreshold = 2 * time.Second

// LogCommand logs the outcome of one command invocation. Extra attrs are
// appended after the shared command fields.
func LogCommand(name string, duration time.Duration, err error, attrs ...any) {
	base := append([]any{
		slog.String("type", "cmd"),
		slog.String("name", name),
		slog.Duration("took", duration),
	}, attrs...)

	switch {
	case err != nil:
		slog.Error("Command failed", append(base,
			slog.Any("error", err),
			slog.String("status", "failed"),
		)...)
	case duration > slowCommandThreshold:
		slog.Warn("Command executed slowly", append(base,
			slog.String("status", "slow"),
		)...)
	default:
		slog.Info("Command completed", append(base,
			slog.String("status", "success"),
		)...)
	}
}

// LogQuery logs a store operation. Successes log at debug so the hot write
// path stays quiet at the default level; failures always log.
func LogQuery(op string, duration time.Duration, err error, attrs ...any) {
	base := append([]any{
		slog.String("type", "db"),
		slog.String("op", op),
		slog.Duration("took", duration),
	}, attrs...)

	if err != nil {
		slog.Error("Query failed", append(base, slog.Any("error", err))...)
		return
	}
	slog.Debug("Query executed", base...)
}

// LogSystem logs system events
func LogSystem(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
