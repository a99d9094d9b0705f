package handlers

import (
	"net/http"

	"github.com/diewo77/qrsona/httpx"
	"gorm.io/gorm"
)

// Health answers GET /api/health. A failing database ping reports
// "degraded" with 503.
func Health(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
