package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/diewo77/qrsona/httpx"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/validation"
	"github.com/skip2/go-qrcode"
)

// QRSize is the side of the generated PNG in pixels.
const QRSize = 256

// GenerateQR answers POST /api/generate-qr with a PNG data URI.
func GenerateQR(w http.ResponseWriter, r *http.Request) {
	var req models.QRCodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		fail(w, r, http.StatusBadRequest, "invalid_request", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("url", req.URL, v)
	validation.MaxLen("url", req.URL, 2048, v)
	if !v.Empty() {
		failValidation(w, r, v)
		return
	}
	png, err := qrcode.Encode(req.URL, qrcode.Medium, QRSize)
	if err != nil {
		slog.Error("qr encode failed", "err", err)
		fail(w, r, http.StatusInternalServerError, "qr_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, models.QRCodeResponse{
		QRData: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		URL:    req.URL,
	})
}
