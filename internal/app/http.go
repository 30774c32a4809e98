package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"memoboard/api/internal/ratelimit"
)

type HTTPServer struct {
	service    *Service
	limiter    *ratelimit.Limiter
	corsOrigin string
}

func NewHTTPServer(service *Service, limiter *ratelimit.Limiter, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, limiter: limiter, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"database": map[string]any{"status": "ok"},
		}

		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["database"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	// One shared budget per caller across every API endpoint. A rejected
	// caller gets no retry scheduling; it must back off on its own.
	if !s.limiter.Allow(clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED")
		return
	}

	if r.URL.Path == "/api/memos" {
		s.handleMemos(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/validate" {
		var body struct {
			Content string `json:"content"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"valid": false, "error": "INVALID_BODY"})
			return
		}
		result := s.service.Validate(body.Content)
		if !result.Valid {
			writeJSON(w, http.StatusBadRequest, map[string]any{"valid": false, "error": result.Reason})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"valid": true})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/ads" {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    s.service.AdCatalog(r.Context()),
		})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND")
}

func (s *HTTPServer) handleMemos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		memos, err := s.service.ListMemos(r.Context())
		if err != nil {
			status, code := mapError(err)
			writeError(w, status, code)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"data":      memos,
			"timestamp": time.Now().UnixMilli(),
		})

	case http.MethodPost:
		var body struct {
			Content string `json:"content"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY")
			return
		}
		memo, err := s.service.CreateMemo(r.Context(), body.Content)
		if err != nil {
			status, code := mapError(err)
			writeError(w, status, code)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": memo})

	case http.MethodPut:
		var body struct {
			ID      string `json:"id"`
			Content string `json:"content"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY")
			return
		}
		memo, err := s.service.UpdateMemo(r.Context(), body.ID, body.Content)
		if err != nil {
			status, code := mapError(err)
			writeError(w, status, code)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": memo})

	case http.MethodDelete:
		var body struct {
			ID string `json:"id"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY")
			return
		}
		if err := s.service.DeleteMemo(r.Context(), body.ID); err != nil {
			status, code := mapError(err)
			writeError(w, status, code)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
	}
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		setSecurityHeaders(writer.Header())
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Content-Type", "application/json")
}

func setSecurityHeaders(header http.Header) {
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("X-Frame-Options", "DENY")
	header.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	header.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	header.Set("Permissions-Policy", "geolocation=(), camera=(), microphone=()")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError emits the failure envelope. The code, not the HTTP status
// text, is the contract consumers branch on.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   code,
	})
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

// clientIP derives the caller identity for rate limiting. No
// authentication exists, so one address may cover many real users.
func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		if i := strings.IndexByte(forwarded, ','); i >= 0 {
			forwarded = forwarded[:i]
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func mapError(err error) (status int, code string) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code
	}
	log.Printf("server error: %v", err)
	return http.StatusInternalServerError, "SERVER_ERROR"
}
