package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledLoggingIsNoop(t *testing.T) {
	dir := t.TempDir()
	if err := Configure(dir, false, "info"); err != nil {
		t.Fatalf("configure: %v", err)
	}
	defer CloseAll()

	Dispatch("this goes nowhere")
	if _, err := os.Stat(filepath.Join(dir, "logs")); !os.IsNotExist(err) {
		t.Fatalf("disabled logging must not create the logs directory")
	}
}

func TestCategoryFilesAndLevels(t *testing.T) {
	dir := t.TempDir()
	if err := Configure(dir, true, "warn"); err != nil {
		t.Fatalf("configure: %v", err)
	}
	defer CloseAll()

	Dispatch("info suppressed at warn level")
	DispatchWarn("warning recorded")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	var dispatchLog string
	for _, e := range entries {
		if strings.Contains(e.Name(), string(CategoryDispatch)) {
			dispatchLog = filepath.Join(dir, "logs", e.Name())
		}
	}
	if dispatchLog == "" {
		t.Fatalf("no dispatch log file created, got %v", entries)
	}

	data, err := os.ReadFile(dispatchLog)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "info suppressed") {
		t.Errorf("info line written at warn level")
	}
	if !strings.Contains(string(data), "warning recorded") {
		t.Errorf("warn line missing from log")
	}
}
