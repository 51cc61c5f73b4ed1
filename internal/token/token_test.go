package token

import (
	"strings"
	"testing"
)

const urlSafeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func TestNewLength(t *testing.T) {
	for _, n := range []int{1, 2, 10, IDLength, CodeLength, 33, 64} {
		if got := New(n); len(got) != n {
			t.Errorf("New(%d) returned %q with length %d", n, got, len(got))
		}
	}
}

func TestNewNonPositive(t *testing.T) {
	if got := New(0); got != "" {
		t.Errorf("New(0) = %q, want empty", got)
	}
	if got := New(-5); got != "" {
		t.Errorf("New(-5) = %q, want empty", got)
	}
}

func TestNewAlphabet(t *testing.T) {
	for i := 0; i < 50; i++ {
		tok := New(CodeLength)
		for _, r := range tok {
			if !strings.ContainsRune(urlSafeAlphabet, r) {
				t.Fatalf("token %q contains %q outside the URL-safe alphabet", tok, r)
			}
		}
	}
}

func TestNewUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		tok := NewCode()
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token %q after %d draws", tok, i)
		}
		seen[tok] = struct{}{}
	}
}
