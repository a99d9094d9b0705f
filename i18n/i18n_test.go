package i18n

import "testing"

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("ja-JP,ja;q=0.8") != "ja" {
		t.Fatalf("expected ja")
	}
	if DetectLanguage("fr-FR,fr;q=0.8") != "ja" {
		t.Fatalf("expected ja fallback")
	}
	if DetectLanguage("") != "ja" {
		t.Fatalf("expected default ja")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("ja", "required") != "必須項目です" {
		t.Fatalf("expected japanese message")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to ja translation if exists
	if T("es", "required") != "必須項目です" {
		t.Fatalf("expected ja fallback for es lang")
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for code := range catalogs["ja"] {
		if _, ok := catalogs["en"][code]; !ok {
			t.Errorf("en catalog misses %q", code)
		}
	}
	for code := range catalogs["en"] {
		if _, ok := catalogs["ja"][code]; !ok {
			t.Errorf("ja catalog misses %q", code)
		}
	}
}

func TestLocalize(t *testing.T) {
	got := Localize("en", map[string]string{"title": "required", "memo": "too_long"})
	if got["title"] != "Required" || got["memo"] != "Too long" {
		t.Fatalf("unexpected localization: %v", got)
	}
	if !Supported("ja") || Supported("fr") {
		t.Fatalf("unexpected Supported result")
	}
}
