package sanitizer

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Go Conference  ",
			want:  "Go Conference",
		},
		{
			name:  "multiple spaces between words",
			input: "Go    Conference",
			want:  "Go Conference",
		},
		{
			name:  "tabs and newlines",
			input: "Go\t\nConference",
			want:  "Go Conference",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Spa™ ",
			want:  "Café & Spa™",
		},
		{
			name:  "drops control characters",
			input: "Hall\x00 A",
			want:  "Hall A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := TrimAndNormalize(got); again != got {
				t.Errorf("TrimAndNormalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestTrimText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "keeps paragraphs",
			input: "First line.\n\nSecond paragraph.",
			want:  "First line.\n\nSecond paragraph.",
		},
		{
			name:  "windows line endings and trailing spaces",
			input: "Line one   \r\nLine two\t\r\n",
			want:  "Line one\nLine two",
		},
		{
			name:  "squeezes blank lines",
			input: "A\n\n\n\n\nB",
			want:  "A\n\nB",
		},
		{
			name:  "strips control characters",
			input: "Bring\x07 snacks",
			want:  "Bring snacks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimText(tt.input); got != tt.want {
				t.Errorf("TrimText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Admin@Eventify.COM "); got != "admin@eventify.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestExcerpt(t *testing.T) {
	short := "A short description."
	if got := Excerpt(short, 160); got != short {
		t.Errorf("Excerpt() changed a short text: %q", got)
	}

	long := strings.Repeat("é", 200)
	got := Excerpt(long, 160)
	if n := utf8.RuneCountInString(got); n != 160 {
		t.Errorf("Excerpt() rune count = %d, want 160", n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("Excerpt() should end with an ellipsis, got %q", got)
	}

	if got := Excerpt("Line one\nLine two", 160); got != "Line one Line two" {
		t.Errorf("Excerpt() should flatten newlines, got %q", got)
	}

	if got := Excerpt("anything", 0); got != "" {
		t.Errorf("Excerpt() with zero budget = %q, want empty", got)
	}
}
