package uiutil

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

func TestFitWidth(t *testing.T) {
	if got := FitWidth("abc", 5); got != "abc  " {
		t.Fatalf("expected padding, got %q", got)
	}
	if got := FitWidth("\x1b[1mabcdef\x1b[0m", 3); ansi.Strip(got) != "abc" {
		t.Fatalf("expected styled truncation, got %q", ansi.Strip(got))
	}
}

func TestFitHeight(t *testing.T) {
	if got := FitHeight("a\nb\nc", 2); got != "a\nb" {
		t.Fatalf("expected trim, got %q", got)
	}
	if got := strings.Count(FitHeight("a", 4), "\n"); got != 3 {
		t.Fatalf("expected 4 lines, got %d newlines", got)
	}
	if FitHeight("a", 0) != "" {
		t.Fatal("expected empty body for zero height")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(10, 0, 5) != 5 || Clamp(-1, 0, 5) != 0 || Clamp(3, 0, 5) != 3 {
		t.Fatal("unexpected clamp result")
	}
	if Clamp(3, 8, 4) != 8 {
		t.Fatal("expected lower bound to win")
	}
}

func TestFormatTimestamp(t *testing.T) {
	if FormatTimestamp(time.Time{}) != "" {
		t.Fatal("expected empty label for zero time")
	}
	ts := time.Date(2024, 3, 9, 14, 5, 0, 0, time.Local)
	if got := FormatTimestamp(ts); got != "2024-03-09 14:05" {
		t.Fatalf("unexpected label %q", got)
	}
}
