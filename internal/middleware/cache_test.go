package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/sessions/:id")
	return c
}

func TestCacheableSkipsBearerCodes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		want   bool
	}{
		{"plain get", http.MethodGet, "/api/sessions/abc", true},
		{"get with unrelated query", http.MethodGet, "/api/sessions/abc?foo=bar", true},
		{"manage code present", http.MethodGet, "/api/sessions/abc/attendees?manage=secret", false},
		{"attendance code present", http.MethodGet, "/api/sessions/abc/attendees/x?attendance=secret", false},
		{"post never cached", http.MethodPost, "/api/sessions", false},
		{"delete never cached", http.MethodDelete, "/api/sessions/abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cacheable(newContext(tt.method, tt.target)); got != tt.want {
				t.Errorf("cacheable(%s %s) = %v, want %v", tt.method, tt.target, got, tt.want)
			}
		})
	}
}

func TestCacheKeyStability(t *testing.T) {
	a := cacheKey("cache", newContext(http.MethodGet, "/api/sessions/abc?x=1"))
	b := cacheKey("cache", newContext(http.MethodGet, "/api/sessions/abc?x=1"))
	if a != b {
		t.Errorf("same request produced different keys: %q vs %q", a, b)
	}
	c := cacheKey("cache", newContext(http.MethodGet, "/api/sessions/abc?x=2"))
	if a == c {
		t.Error("different query strings must produce different keys")
	}
}

func TestCacheKeyDistinguishesPathParams(t *testing.T) {
	// All of these share one registered route pattern; the key must
	// still separate them or one session's response is served for
	// another's id.
	pairs := [][2]string{
		{"/api/sessions/abc", "/api/sessions/xyz"},
		{"/api/sessions/abc/attendees", "/api/sessions/xyz/attendees"},
		{"/api/sessions/abc/attendees/count", "/api/sessions/xyz/attendees/count"},
		{"/api/sessions/code/secretA", "/api/sessions/code/secretB"},
	}
	for _, p := range pairs {
		a := cacheKey("cache", newContext(http.MethodGet, p[0]))
		b := cacheKey("cache", newContext(http.MethodGet, p[1]))
		if a == b {
			t.Errorf("requests %q and %q share cache key %q", p[0], p[1], a)
		}
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"count":3,"max":10}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(bs)
	if !ok {
		t.Fatal("decodePayload reported failure")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("header = %v", gotHdr)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q", gotBody)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {}, {1, 2, 3}, {0, 0, 0, 200, 255, 255, 255, 255}} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Errorf("decodePayload(%v) accepted malformed input", bs)
		}
	}
}
