package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelDebug,
		Output: &buf,
		JSON:   true,
	})
	if logger == nil {
		t.Fatal("New logger should not be nil")
	}

	t.Run("Levels", func(t *testing.T) {
		for _, msg := range []string{"debug msg", "info msg", "warn msg", "error msg"} {
			buf.Reset()
			switch msg {
			case "debug msg":
				logger.Debug(msg)
			case "info msg":
				logger.Info(msg)
			case "warn msg":
				logger.Warn(msg)
			case "error msg":
				logger.Error(msg)
			}
			if !strings.Contains(buf.String(), msg) {
				t.Errorf("%q not logged", msg)
			}
		}
	})

	t.Run("DynamicLevel", func(t *testing.T) {
		logger.SetLevel(LevelError)
		if logger.GetLevel() != LevelError {
			t.Error("SetLevel failed")
		}

		buf.Reset()
		logger.Info("should not appear")
		if buf.Len() > 0 {
			t.Error("Logged info message when level was Error")
		}

		logger.SetLevel(LevelDebug)
	})

	t.Run("WithComponent shares level", func(t *testing.T) {
		l := logger.WithComponent("ifcfg")
		logger.SetLevel(LevelWarn)
		defer logger.SetLevel(LevelDebug)

		buf.Reset()
		l.Info("hidden")
		if buf.Len() > 0 {
			t.Error("derived logger ignored parent level")
		}
		l.Warn("shown")
		if !strings.Contains(buf.String(), "ifcfg") {
			t.Error("WithComponent missing component field")
		}
	})

	t.Run("WithFields", func(t *testing.T) {
		buf.Reset()
		l := logger.WithFields(map[string]any{"file": "ifcfg-eth0"})
		l.Info("msg")
		if !strings.Contains(buf.String(), "ifcfg-eth0") {
			t.Error("WithFields missing fields")
		}
	})
}

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	SetPrefix("ifcompat")
	l := New(Config{Level: LevelInfo, Output: &buf}).WithComponent("IFCFG")

	l.Warn("family mismatch", "interface", "eth0", "value", "a b")

	line := buf.String()
	for _, want := range []string{"ifcompat[", "[warn] ifcfg: family mismatch", "interface=eth0", `value="a b"`} {
		if !strings.Contains(line, want) {
			t.Errorf("console line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component should be promoted to the header: %q", line)
	}
}

func TestConsoleHandlerGroup(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf})
	l.WithGroup("lease").Info("attached", "family", "ipv4")

	if !strings.Contains(buf.String(), "lease.family=ipv4") {
		t.Errorf("group prefix missing: %q", buf.String())
	}
}

func TestDefaultLogger(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default logger is nil")
	}

	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Output = &buf
	prev := Default()
	SetDefault(New(cfg))
	defer SetDefault(prev)

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
	Errorf("error %s", "formatted")
	WithComponent("comp").Info("comp msg")

	out := buf.String()
	if strings.Contains(out, "debug") {
		t.Error("debug message logged at info level")
	}
	if !strings.Contains(out, "error formatted") || !strings.Contains(out, "comp msg") {
		t.Errorf("Default logger output incomplete: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJSONLogParsing(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf, JSON: true})

	l.Info("json test", "key", "value")

	var data map[string]any
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if data["msg"] != "json test" {
		t.Error("JSON msg field incorrect")
	}
	if data["key"] != "value" {
		t.Error("JSON extra field incorrect")
	}
	if data["level"] != "INFO" {
		t.Error("JSON level incorrect")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	if l.Enabled(context.Background(), LevelError) {
		t.Error("Discard logger should not be enabled for errors")
	}
}
