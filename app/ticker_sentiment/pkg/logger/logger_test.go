package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestCustomFormatter_Format(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "no headlines found for AAPL",
		Caller:  &runtime.Frame{File: "/src/pkg/headline/yahoo.go", Line: 42},
	}
	entry.Logger.SetReportCaller(true)

	out, err := (&CustomFormatter{}).Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "[2026-03-01 09:30:00] [WARN] [yahoo.go:42] no headlines found for AAPL\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestInitLogger_File(t *testing.T) {
	old := Log
	t.Cleanup(func() { Log = old })

	path := filepath.Join(t.TempDir(), "logs", "run.log")
	if err := InitLogger("not-a-level", path); err != nil {
		t.Fatalf("InitLogger() error = %v", err)
	}
	if Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", Log.GetLevel())
	}

	Log.Error("classifier failed")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "[ERRO]") || !strings.Contains(string(data), "classifier failed") {
		t.Errorf("log file = %q", data)
	}
}

func TestInitLogger_ConsoleIsStderr(t *testing.T) {
	if console != io.Writer(os.Stderr) {
		t.Fatal("console output should default to stderr")
	}

	old, oldConsole := Log, console
	t.Cleanup(func() { Log, console = old, oldConsole })

	var buf bytes.Buffer
	console = &buf
	if err := InitLogger("info", ""); err != nil {
		t.Fatalf("InitLogger() error = %v", err)
	}
	Log.Info("fetched 3 headlines")
	if !strings.Contains(buf.String(), "fetched 3 headlines") {
		t.Errorf("console = %q", buf.String())
	}
}

func TestOr(t *testing.T) {
	if Or(nil) != logrus.FieldLogger(Log) {
		t.Error("Or(nil) should fall back to the global logger")
	}
	l, _ := test.NewNullLogger()
	if Or(l) != logrus.FieldLogger(l) {
		t.Error("Or(l) should return l")
	}
}
