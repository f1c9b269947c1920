package logger

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type capturedRecord struct {
	level slog.Level
	msg   string
	attrs map[string]string
}

type captureHandler struct {
	records *[]capturedRecord
}

func (h captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h captureHandler) Handle(_ context.Context, r slog.Record) error {
	rec := capturedRecord{level: r.Level, msg: r.Message, attrs: map[string]string{}}
	r.Attrs(func(a slog.Attr) bool {
		rec.attrs[a.Key] = a.Value.String()
		return true
	})
	*h.records = append(*h.records, rec)
	return nil
}

func (h captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h captureHandler) WithGroup(string) slog.Handler      { return h }

func capture(t *testing.T) *[]capturedRecord {
	t.Helper()
	prev := slog.Default()
	records := &[]capturedRecord{}
	slog.SetDefault(slog.New(captureHandler{records: records}))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return records
}

func TestLogCommand(t *testing.T) {
	tests := []struct {
		name       string
		duration   time.Duration
		err        error
		wantLevel  slog.Level
		wantMsg    string
		wantStatus string
	}{
		{"success", 50 * time.Millisecond, nil, slog.LevelInfo, "Command completed", "success"},
		{"failure", 50 * time.Millisecond, errors.New("boom"), slog.LevelError, "Command failed", "failed"},
		{"slow", 3 * time.Second, nil, slog.LevelWarn, "Command executed slowly", "slow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := capture(t)

			LogCommand("daily", tt.duration, tt.err, slog.String("user_id", "42"))

			if len(*records) != 1 {
				t.Fatalf("expected 1 record, got %d", len(*records))
			}
			rec := (*records)[0]
			if rec.level != tt.wantLevel {
				t.Errorf("level = %v, want %v", rec.level, tt.wantLevel)
			}
			if rec.msg != tt.wantMsg {
				t.Errorf("msg = %q, want %q", rec.msg, tt.wantMsg)
			}
			if rec.attrs["type"] != "cmd" || rec.attrs["name"] != "daily" {
				t.Errorf("command attrs missing: %v", rec.attrs)
			}
			if rec.attrs["status"] != tt.wantStatus {
				t.Errorf("status = %q, want %q", rec.attrs["status"], tt.wantStatus)
			}
			if rec.attrs["user_id"] != "42" {
				t.Errorf("extra attr not carried: %v", rec.attrs)
			}
		})
	}
}

func TestLogQuery(t *testing.T) {
	t.Run("failure logs at error", func(t *testing.T) {
		records := capture(t)

		LogQuery("member update", 10*time.Millisecond, errors.New("conn refused"))

		if len(*records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(*records))
		}
		rec := (*records)[0]
		if rec.level != slog.LevelError || rec.msg != "Query failed" {
			t.Errorf("got level=%v msg=%q", rec.level, rec.msg)
		}
		if rec.attrs["type"] != "db" || rec.attrs["op"] != "member update" {
			t.Errorf("query attrs missing: %v", rec.attrs)
		}
	})

	t.Run("success logs at debug", func(t *testing.T) {
		records := capture(t)

		LogQuery("quest purge", 10*time.Millisecond, nil)

		if len(*records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(*records))
		}
		if rec := (*records)[0]; rec.level != slog.LevelDebug || rec.msg != "Query executed" {
			t.Errorf("got level=%v msg=%q", rec.level, rec.msg)
		}
	})
}

func TestLogSystemAndLogError(t *testing.T) {
	records := capture(t)

	LogSystem("Scheduler started", slog.Int("jobs", 3))
	LogError("Quest reset failed", errors.New("boom"), slog.String("guild_id", "g1"))

	if len(*records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(*records))
	}
	if rec := (*records)[0]; rec.level != slog.LevelInfo || rec.attrs["type"] != "sys" || rec.attrs["jobs"] != "3" {
		t.Errorf("system record wrong: %+v", rec)
	}
	if rec := (*records)[1]; rec.level != slog.LevelError || rec.attrs["type"] != "error" || rec.attrs["guild_id"] != "g1" {
		t.Errorf("error record wrong: %+v", rec)
	}
}
