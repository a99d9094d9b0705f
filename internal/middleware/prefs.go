package middleware

import (
	"context"
	"net/http"

	"github.com/diewo77/qrsona/i18n"
)

type ctxKey string

const (
	ctxLang      ctxKey = "pref_lang"
	ctxRequestID ctxKey = "request_id"
)

// Prefs picks the response language (query > Accept-Language) and stores it
// in the request context.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := r.URL.Query().Get("lang")
		if !i18n.Supported(lang) {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		ctx := context.WithValue(r.Context(), ctxLang, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LangFrom returns language preference from context or fallback.
func LangFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ctxLang).(string); ok && v != "" {
		return v
	}
	return i18n.DefaultLang
}
