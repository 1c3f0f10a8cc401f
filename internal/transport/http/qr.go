package http

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"vineyard-quiz/internal/app"
)

// qrSize is a phone-friendly edge length in pixels.
const qrSize = 320

// handleQR renders a PNG QR code of the session's join URL.
func (a *API) handleQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code, err := app.NormalizeCode(ps.ByName("code"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	path := strings.TrimSuffix(r.URL.Path, "/qr")
	path = strings.TrimSuffix(path, ps.ByName("code")) + code

	png, err := qrcode.Encode(scheme+"://"+r.Host+path, qrcode.Medium, qrSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "qr generation failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
