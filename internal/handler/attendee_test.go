package handler

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeDisplayName(t *testing.T) {
	long := strings.Repeat("x", 80)
	tests := []struct {
		name string
		in   *string
		want *string
	}{
		{"nil stays nil", nil, nil},
		{"empty becomes nil", ptr(""), nil},
		{"whitespace becomes nil", ptr("   \t"), nil},
		{"plain name trimmed", ptr("  Maya "), ptr("Maya")},
		{"ascii capped at 60", ptr(long), ptr(long[:60])},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeDisplayName(tt.in)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("got %q, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("got nil, want %q", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("got %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestSanitizeDisplayNameMultibyte(t *testing.T) {
	// 1 + 65 runes, three bytes per euro sign.  A byte-indexed cut
	// would land mid-rune and yield invalid UTF-8.
	in := "a" + strings.Repeat("€", 65)
	got := sanitizeDisplayName(&in)
	if got == nil {
		t.Fatal("got nil")
	}
	if !utf8.ValidString(*got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", *got)
	}
	if n := utf8.RuneCountInString(*got); n != maxDisplayNameLen {
		t.Errorf("rune count = %d, want %d", n, maxDisplayNameLen)
	}
	if !strings.HasSuffix(*got, "€") {
		t.Errorf("truncated name does not end on a whole rune: %q", *got)
	}

	short := "αβγ"
	if got := sanitizeDisplayName(&short); got == nil || *got != short {
		t.Errorf("short multibyte name altered: %v", got)
	}
}

func ptr(s string) *string { return &s }
