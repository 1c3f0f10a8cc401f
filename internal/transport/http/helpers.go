package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"vineyard-quiz/internal/domain"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, message := classifyError(err)
	writeError(w, status, message)
}

// classifyError maps domain failures to an HTTP status and a client-safe message.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "game not found"
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "profile not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "only the host can do that"
	case errors.Is(err, domain.ErrParticipantNotFound):
		return http.StatusConflict, "join the game first"
	case errors.Is(err, domain.ErrVersionConflict), errors.Is(err, domain.ErrSessionExists):
		return http.StatusConflict, "the game changed, try again"
	case errors.Is(err, domain.ErrInvalidCode):
		return http.StatusBadRequest, "game codes are four letters"
	case errors.Is(err, domain.ErrInvalidAnswer):
		return http.StatusBadRequest, "answer is required"
	case errors.Is(err, domain.ErrInvalidName):
		return http.StatusBadRequest, "a display name is required"
	case errors.Is(err, domain.ErrInvalidQuestion):
		return http.StatusBadRequest, "invalid question"
	case errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway, "question generation failed"
	case errors.Is(err, domain.ErrAllocationExhausted):
		return http.StatusServiceUnavailable, "no free game code, try again"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "storage unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "request canceled"
	default:
		return http.StatusInternalServerError, "request failed"
	}
}

// decodeBody reads an optional JSON body into dst; an empty body is fine.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (a *API) logf(format string, args ...any) {
	if !a.opts.Verbose {
		return
	}
	log.Printf(format, args...)
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytesWritten += n
	return n, err
}

// Hijack keeps websocket upgrades working behind the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	r.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

// logRequests logs one line per request when verbose output is on.
func (a *API) logRequests(next http.Handler) http.Handler {
	if !a.opts.Verbose {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.logf("SERVE: %s %s -> %d (%d bytes) in %s",
			r.Method, r.URL.Path, rec.statusCode, rec.bytesWritten,
			time.Since(start).Round(time.Microsecond))
	})
}
