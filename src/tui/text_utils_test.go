package tui

import (
	"strings"
	"testing"
)

func TestTruncate_WithEllipsis(t *testing.T) {
	text := "this is a very long text"
	maxLen := 10
	result := Truncate(text, maxLen, true)

	width := VisualWidth(result)
	if width > maxLen {
		t.Errorf("truncated text exceeds maxLen %d: width=%d, content='%s'", maxLen, width, result)
	}

	if !strings.HasSuffix(result, "...") {
		t.Errorf("expected ellipsis, got '%s'", result)
	}
}

func TestTruncate_WithoutEllipsis(t *testing.T) {
	text := "this is a very long text"
	maxLen := 10
	result := Truncate(text, maxLen, false)

	width := VisualWidth(result)
	if width > maxLen {
		t.Errorf("truncated text exceeds maxLen %d: width=%d, content='%s'", maxLen, width, result)
	}

	if strings.HasSuffix(result, "...") {
		t.Errorf("unexpected ellipsis, got '%s'", result)
	}
}

func TestTruncate_WideCharacters(t *testing.T) {
	text := "ビルド ビルド ビルド"
	maxLen := 9
	result := Truncate(text, maxLen, true)

	width := VisualWidth(result)
	if width > maxLen {
		t.Errorf("truncated text exceeds maxLen %d: width=%d, content='%s'", maxLen, width, result)
	}
}

func TestTruncate_ShortTextUnchanged(t *testing.T) {
	result := Truncate("  deploy  ", 20, true)
	if result != "deploy" {
		t.Errorf("expected 'deploy', got '%s'", result)
	}
}

func TestTruncate_ZeroWidth(t *testing.T) {
	if result := Truncate("deploy", 0, true); result != "" {
		t.Errorf("expected empty string, got '%s'", result)
	}
}
