package core

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
)

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	logFile, err := SetupLogging(t.TempDir(), false)
	if err != nil || logFile != nil {
		t.Errorf("Expected nil file and error when debug=false, got %v, %v", logFile, err)
	}
	if output := log.Writer(); output != io.Discard {
		t.Errorf("Expected log output to be io.Discard, got %v", output)
	}
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logFile, err := SetupLogging(dir, true)
	if err != nil {
		t.Fatalf("Expected logging setup to succeed, got %v", err)
	}
	defer func() {
		log.SetOutput(io.Discard)
		logFile.Close()
	}()

	logPath := filepath.Join(dir, LogFileName)
	log.Println("Test log message")

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
	if output := log.Writer(); output == os.Stdout || output == os.Stderr {
		t.Error("Log output should not be stdout or stderr")
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, LogFileName)

	large, err := os.Create(logPath)
	if err != nil {
		t.Fatalf("Failed to create large log file: %v", err)
	}
	if err := large.Truncate(MaxLogSize + 1); err != nil {
		t.Fatalf("Failed to grow log file: %v", err)
	}
	large.Close()

	logFile, err := SetupLogging(dir, true)
	if err != nil {
		t.Fatalf("Expected logging setup to succeed, got %v", err)
	}
	defer func() {
		log.SetOutput(io.Discard)
		logFile.Close()
	}()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != LogFileName && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
			break
		}
	}
	if !rotatedFound {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > MaxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", MaxLogSize, info.Size())
	}
}

func TestCrashCleanupOrder(t *testing.T) {
	var order []int
	OnCrash(func() { order = append(order, 1) })
	OnCrash(func() { panic("broken hook") })
	OnCrash(func() { order = append(order, 3) })

	runCrashCleanup()
	if len(order) != 2 || order[0] != 3 || order[1] != 1 {
		t.Errorf("Expected [3 1] despite a panicking hook, got %v", order)
	}

	runCrashCleanup()
	if len(order) != 2 {
		t.Error("Expected hooks to run only once")
	}
}
