package utils

import (
	"strings"
	"testing"
)

func TestRenderMarkdownBasic(t *testing.T) {
	out := string(RenderMarkdown("# Title\n\nSome **bold** text."))
	if !strings.Contains(out, "<h1") {
		t.Errorf("Expected heading in output, got %s", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("Expected bold text in output, got %s", out)
	}
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	out := string(RenderMarkdown("hello <script>alert('xss')</script> world"))
	if strings.Contains(out, "<script") {
		t.Errorf("Script tag survived sanitization: %s", out)
	}
}

func TestRenderMarkdownCodeFence(t *testing.T) {
	out := string(RenderMarkdown("```go\nfmt.Println(\"hi\")\n```"))
	if !strings.Contains(out, "<pre>") && !strings.Contains(out, "<code") {
		t.Errorf("Expected code block in output, got %s", out)
	}
}

func TestRandID(t *testing.T) {
	id := RandID(8)
	if len(id) != 8 {
		t.Errorf("Expected length 8, got %d", len(id))
	}
	for _, r := range id {
		if !strings.ContainsRune(idBytes, r) {
			t.Errorf("Unexpected character %q in id %s", r, id)
		}
	}
}

func TestStringToInt(t *testing.T) {
	if got := StringToInt("42"); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
	if got := StringToInt("nope"); got != 0 {
		t.Errorf("Expected 0 for invalid input, got %d", got)
	}
}
