package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/myrjola/petrload/internal/logging"
)

func TestNew(t *testing.T) {
	t.Run("json with context attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := logging.New(&buf, logging.FormatJSON, slog.LevelInfo)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		ctx := logging.WithAttrs(t.Context(), slog.String("exercise_id", "bench"))
		logger.LogAttrs(ctx, slog.LevelInfo, "forecast computed", slog.Int("milestones", 5))
		logger.LogAttrs(ctx, slog.LevelDebug, "filtered out")

		var record map[string]any
		if err = json.Unmarshal(buf.Bytes(), &record); err != nil {
			t.Fatalf("expected a single JSON record, got %q: %v", buf.String(), err)
		}
		if got := record["exercise_id"]; got != "bench" {
			t.Errorf("exercise_id = %v, want bench", got)
		}
		if got := record["milestones"]; got != float64(5) {
			t.Errorf("milestones = %v, want 5", got)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := logging.New(&buf, logging.FormatText, slog.LevelDebug)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		logger.Debug("hello", slog.String("muscle", "chest"))
		if !strings.Contains(buf.String(), "muscle=chest") {
			t.Errorf("expected %q to contain muscle=chest", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := logging.New(&bytes.Buffer{}, "xml", slog.LevelInfo); err == nil {
			t.Error("expected error")
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
