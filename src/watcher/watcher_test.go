package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	// Create watcher
	w, err := NewWatcher(tmpDir, "icon.png", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Stop()

	// Start watching
	if err := w.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	// Create source file
	sourceFile := filepath.Join(tmpDir, "icon.png")
	if err := os.WriteFile(sourceFile, []byte("first"), 0644); err != nil {
		t.Fatalf("Failed to create source file: %v", err)
	}

	// Wait for event (could be Create or Write depending on OS)
	select {
	case event := <-w.Events():
		if event.Type != EventCreated && event.Type != EventModified {
			t.Errorf("Expected EventCreated or EventModified, got %v", event.Type)
		}
		if event.FilePath != sourceFile {
			t.Errorf("Expected filepath %s, got %s", sourceFile, event.FilePath)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for event")
	}

	// Modify file
	if err := os.WriteFile(sourceFile, []byte("second"), 0644); err != nil {
		t.Fatalf("Failed to modify source file: %v", err)
	}

	// Wait for modify event
	select {
	case event := <-w.Events():
		if event.Type != EventModified {
			t.Errorf("Expected EventModified, got %v", event.Type)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for modify event")
	}

	// Remove file
	if err := os.Remove(sourceFile); err != nil {
		t.Fatalf("Failed to remove source file: %v", err)
	}

	select {
	case event := <-w.Events():
		if event.Type != EventDeleted {
			t.Errorf("Expected EventDeleted, got %v", event.Type)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for delete event")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := NewWatcher(tmpDir, "icon.png", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Stop()

	if err := w.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	// Generated icons land in the same folder and must not retrigger
	for _, name := range []string{"icon-192x192.png", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("test"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	// Should NOT receive event
	select {
	case event := <-w.Events():
		t.Errorf("Should not receive event for other files, got: %v", event)
	case <-time.After(500 * time.Millisecond):
		// Expected - no event received
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := NewWatcher(tmpDir, "icon.png", 300*time.Millisecond)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Stop()

	if err := w.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}

	sourceFile := filepath.Join(tmpDir, "icon.png")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(sourceFile, []byte{byte(i)}, 0644); err != nil {
			t.Fatalf("Failed to write source file: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-w.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for event")
	}

	select {
	case event := <-w.Events():
		t.Errorf("Expected a single event for the burst, got another: %v", event)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestStopClosesEvents(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), "icon.png", 0)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	if w.debounce != DefaultDebounce {
		t.Errorf("Expected default debounce %v, got %v", DefaultDebounce, w.debounce)
	}

	if err := w.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if _, ok := <-w.Events(); ok {
		t.Error("Expected closed event channel")
	}
}
