package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"username":" Meera.Iyer "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("username")(c)
	if key != "meera.iyer|1.2.3.4" {
		t.Fatalf("key want meera.iyer|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Meera.Iyer") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestRateLimitRuleRetryAfter(t *testing.T) {
	rule := RateLimitRule{Prefix: "tryon:rate:login", WindowSeconds: 60, MaxRequests: 5, BlockSeconds: 300}
	cases := []struct {
		name  string
		count int64
		ttl   int64
		want  int
	}{
		{"under limit", 5, 40, 0},
		{"blocked with ttl", 6, 300, 300},
		{"ttl missing falls back to window", 7, -1, 60},
	}
	for _, tc := range cases {
		if got := rule.retryAfter(tc.count, tc.ttl); got != tc.want {
			t.Fatalf("%s: retry after want %d got %d", tc.name, tc.want, got)
		}
	}
	if got := rule.key("meera|1.2.3.4"); got != "tryon:rate:login:meera|1.2.3.4" {
		t.Fatalf("key want prefixed dimension got %s", got)
	}
	if (RateLimitRule{WindowSeconds: 60}).enabled() {
		t.Fatalf("rule without max requests should be disabled")
	}
}

func TestKeyByIPAndJSONFieldIgnoresNonString(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"username":42}`))
	c.Request.RemoteAddr = "5.6.7.8:1000"
	if key := KeyByIPAndJSONField("username")(c); key != "5.6.7.8" {
		t.Fatalf("non-string field should fall back to ip, got %s", key)
	}
}
