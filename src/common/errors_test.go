package common

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, 0},
		{"missing", &GenerateError{Kind: KindMissingSource, Err: ErrSourceNotFound}, KindMissingSource},
		{"unexpected", &GenerateError{Kind: KindUnexpected, Err: errors.New("boom")}, KindUnexpected},
		{"plain error", errors.New("boom"), KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateErrorMessage(t *testing.T) {
	missing := &GenerateError{Kind: KindMissingSource, Path: "/opt/app/icon.png", Err: ErrSourceNotFound}
	if got := missing.Error(); got != "source icon '/opt/app/icon.png' not found" {
		t.Errorf("Unexpected message %q", got)
	}

	cause := errors.New("disk full")
	failed := &GenerateError{Kind: KindUnexpected, Size: 512, Err: cause}
	if got := failed.Error(); got != "icon 512x512: disk full" {
		t.Errorf("Unexpected message %q", got)
	}
	if !errors.Is(failed, cause) {
		t.Error("GenerateError should unwrap to its cause")
	}
}

func TestReport(t *testing.T) {
	color.NoColor = true

	t.Run("missing source", func(t *testing.T) {
		var buf bytes.Buffer
		Report(&buf, "icon.png", &GenerateError{
			Kind:    KindMissingSource,
			Path:    "/opt/app/icon.png",
			BaseDir: "/opt/app",
			Err:     ErrSourceNotFound,
		})

		want := "Error: Source icon '/opt/app/icon.png' not found.\n" +
			"No icons were generated. Please ensure 'icon.png' exists in the directory: '/opt/app'.\n"
		if buf.String() != want {
			t.Errorf("Report() = %q, want %q", buf.String(), want)
		}
	})

	t.Run("unexpected failure", func(t *testing.T) {
		var buf bytes.Buffer
		Report(&buf, "icon.png", &GenerateError{Kind: KindUnexpected, Err: errors.New("unknown format")})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("Expected 2 lines, got %q", buf.String())
		}
		if lines[0] != "An unexpected error occurred during icon resizing: unknown format" {
			t.Errorf("Unexpected first line %q", lines[0])
		}
		if lines[1] != "Icon resizing failed." {
			t.Errorf("Unexpected second line %q", lines[1])
		}
	})
}
