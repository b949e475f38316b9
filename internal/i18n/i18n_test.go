package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"":      LocaleEN,
		"en":    LocaleEN,
		"en-GB": LocaleEN,
		"zh":    LocaleZH,
		"zh-TW": LocaleZH,
		"hi-IN": LocaleEN,
	}
	for input, want := range cases {
		if got := NormalizeLocale(input); got != want {
			t.Fatalf("NormalizeLocale(%q) want %s got %s", input, want, got)
		}
	}
}

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{name: "default", target: "/", want: LocaleEN},
		{name: "header", target: "/", header: "zh-CN,zh;q=0.9,en;q=0.8", want: LocaleZH},
		{name: "query wins", target: "/?lang=en", header: "zh-CN", want: LocaleEN},
		{name: "wildcard skipped", target: "/", header: "*, zh", want: LocaleZH},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", tc.target, nil)
			if tc.header != "" {
				c.Request.Header.Set("Accept-Language", tc.header)
			}
			if got := ResolveLocale(c); got != tc.want {
				t.Fatalf("ResolveLocale want %s got %s", tc.want, got)
			}
		})
	}
}

func TestTFallsBack(t *testing.T) {
	if got := T(LocaleZH, "cart.item_added"); got != "已加入购物车" {
		t.Fatalf("zh message want 已加入购物车 got %s", got)
	}
	if got := T("fr", "cart.item_added"); got != "Item added to cart" {
		t.Fatalf("fallback message want english got %s", got)
	}
	if got := T(LocaleEN, "missing.key"); got != "missing.key" {
		t.Fatalf("missing key want key itself got %s", got)
	}
	if got := Sprintf(LocaleEN, "error.password_min_length", 8); got != "Password must be at least 8 characters" {
		t.Fatalf("Sprintf got %s", got)
	}
}

func TestLocalesShareKeys(t *testing.T) {
	for key := range messages[LocaleEN] {
		if _, ok := messages[LocaleZH][key]; !ok {
			t.Fatalf("zh-CN missing key %s", key)
		}
	}
}
