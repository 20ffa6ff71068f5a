package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    logrus.Level
		wantErr bool
	}{
		{"", logrus.InfoLevel, false},
		{"debug", logrus.DebugLevel, false},
		{" WARN ", logrus.WarnLevel, false},
		{"error", logrus.ErrorLevel, false},
		{"trace", 0, true},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_WritesToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "pitwall.log")
	log, closer, err := New(path, "debug")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	log.WithField("slot", "race").Debug("fetch: starting request")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !strings.Contains(string(data), "fetch: starting request") || !strings.Contains(string(data), "slot=race") {
		t.Fatalf("log file = %q", data)
	}
}

func TestNew_StderrAndBadLevel(t *testing.T) {
	t.Parallel()

	if _, closer, err := New(Stderr, "info"); err != nil {
		t.Fatalf("New(stderr) error: %v", err)
	} else if err := closer.Close(); err != nil {
		t.Fatalf("Close(stderr) error: %v", err)
	}
	if _, _, err := New(Stderr, "chatty"); err == nil {
		t.Fatal("New with bad level succeeded")
	}
}

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(&buf, logrus.WarnLevel)
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("output = %q", buf.String())
	}
}
