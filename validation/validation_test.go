package validation

import "testing"

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("display_name", "  ", v)
	Required("title", "engineer", v)
	if v["display_name"] != "required" {
		t.Fatalf("expected required violation, got %v", v)
	}
	if _, ok := v["title"]; ok {
		t.Fatal("non-empty title must pass")
	}
}

func TestMaxLen_CountsRunes(t *testing.T) {
	v := Violations{}
	MaxLen("memo", "こんにちは", 5, v)
	if !v.Empty() {
		t.Fatalf("5 runes must fit in 5, got %v", v)
	}
	MaxLen("memo", "こんにちは!", 5, v)
	if v["memo"] != "too_long" {
		t.Fatalf("expected too_long, got %v", v)
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"", true},
		{"2024-07-01", true},
		{"2024/07/01", false},
		{"2024-13-01", false},
	}
	for _, tt := range tests {
		v := Violations{}
		Date("event_date", tt.in, "2006-01-02", v)
		if v.Empty() != tt.ok {
			t.Errorf("Date(%q) ok=%v, want %v", tt.in, v.Empty(), tt.ok)
		}
	}
}

func TestHTTPURL(t *testing.T) {
	v := Violations{}
	HTTPURL("url", "https://github.com/qrsona", v)
	if !v.Empty() {
		t.Fatalf("valid url rejected: %v", v)
	}
	HTTPURL("url", "github.com/qrsona", v)
	if v["url"] != "invalid_url" {
		t.Fatalf("expected invalid_url, got %v", v)
	}
}

func TestEmailAndMinLen(t *testing.T) {
	cases := map[string]bool{
		"taro@example.com": true,
		"taro":             false,
		"@example.com":     false,
		"taro@":            false,
		"ta ro@example.jp": false,
	}
	for in, ok := range cases {
		v := Violations{}
		Email("email", in, v)
		if got := v.Empty(); got != ok {
			t.Errorf("Email(%q) valid=%v, want %v", in, got, ok)
		}
	}

	v := Violations{}
	MinLen("password", "パスワード", 8, v)
	if v["password"] != "too_short" {
		t.Errorf("expected too_short, got %v", v)
	}
}
