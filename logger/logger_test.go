package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New(Config{Level: "debug", Development: true})
	if err != nil {
		t.Fatal(err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("debug should be enabled")
	}

	l, err = New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) || !l.Core().Enabled(zapcore.InfoLevel) {
		t.Errorf("default level should be info")
	}

	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Errorf("expected error for unknown level")
	}
}
