package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	log := New()
	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level, got %s", log.GetLevel())
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Debug().Str("path", "/api/v1/users").Msg("request sent")

	var event map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("Expected one JSON event, got %q: %v", buf.String(), err)
	}
	if event["message"] != "request sent" {
		t.Errorf("Expected message 'request sent', got %v", event["message"])
	}
	if event["path"] != "/api/v1/users" {
		t.Errorf("Expected path field, got %v", event["path"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{in: "", want: zerolog.InfoLevel},
		{in: "debug", want: zerolog.DebugLevel},
		{in: " WARN ", want: zerolog.WarnLevel},
		{in: "warning", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "disabled", want: zerolog.Disabled},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewWithLevel(t *testing.T) {
	log, err := NewWithLevel("error")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if log.GetLevel() != zerolog.ErrorLevel {
		t.Errorf("Expected error level, got %s", log.GetLevel())
	}

	if _, err := NewWithLevel("chatty"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	retrievedLog := FromContext(ctx)
	retrievedLog.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("Expected log output from retrieved logger")
	}
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())

	if log.GetLevel() != zerolog.Disabled {
		t.Errorf("Expected disabled default logger, got %s", log.GetLevel())
	}
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]interface{}{
		"account_id": "123",
		"attempt":    2,
	})
	log.Info().Msg("test message")

	output := buf.String()
	if !strings.Contains(output, `"account_id":"123"`) {
		t.Errorf("Expected output to contain account_id field, got: %s", output)
	}
	if !strings.Contains(output, `"attempt":2`) {
		t.Errorf("Expected output to contain attempt field, got: %s", output)
	}
}

func TestComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	log := Component(NewWithWriter(buf), "cards")
	log.Info().Msg("issued")

	if !strings.Contains(buf.String(), `"component":"cards"`) {
		t.Errorf("Expected component field, got: %s", buf.String())
	}
}
