// Package client is the board-side counterpart of the HTTP API: a thin
// API client plus the local pieces the server deliberately does not own,
// namely the delete credit ledger, the ad gate, and the profile file
// those persist into.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"memoboard/api/internal/moderation"
	"memoboard/api/internal/store"
)

// APIError is a rejection the server answered with a stable reason code.
type APIError struct {
	Status int
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Code, e.Status)
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type validateEnvelope struct {
	Valid bool   `json:"valid"`
	Error string `json:"error"`
}

// API talks to the memo board server.
type API struct {
	baseURL string
	client  *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *API) Memos(ctx context.Context) ([]store.Memo, error) {
	envelope, err := a.do(ctx, http.MethodGet, "/api/memos", nil)
	if err != nil {
		return nil, err
	}
	var memos []store.Memo
	if err := json.Unmarshal(envelope.Data, &memos); err != nil {
		return nil, fmt.Errorf("decode memo list: %w", err)
	}
	return memos, nil
}

func (a *API) AddMemo(ctx context.Context, content string) (store.Memo, error) {
	return a.memoCall(ctx, http.MethodPost, map[string]string{"content": content})
}

func (a *API) UpdateMemo(ctx context.Context, id, content string) (store.Memo, error) {
	return a.memoCall(ctx, http.MethodPut, map[string]string{"id": id, "content": content})
}

func (a *API) DeleteMemo(ctx context.Context, id string) error {
	_, err := a.do(ctx, http.MethodDelete, "/api/memos", map[string]string{"id": id})
	return err
}

// Validate asks the server to check content without creating anything.
// The same checks run again on write calls; this one only exists so the
// client can reject before burning a rate limit slot on a doomed POST.
func (a *API) Validate(ctx context.Context, content string) (moderation.Result, error) {
	body, status, err := a.roundTrip(ctx, http.MethodPost, "/api/validate", map[string]string{"content": content})
	if err != nil {
		return moderation.Result{}, err
	}

	var envelope validateEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return moderation.Result{}, fmt.Errorf("decode validate response: %w", err)
	}
	if status != http.StatusOK && status != http.StatusBadRequest {
		return moderation.Result{}, &APIError{Status: status, Code: envelope.Error}
	}
	return moderation.Result{Valid: envelope.Valid, Reason: moderation.Reason(envelope.Error)}, nil
}

func (a *API) memoCall(ctx context.Context, method string, payload any) (store.Memo, error) {
	envelope, err := a.do(ctx, method, "/api/memos", payload)
	if err != nil {
		return store.Memo{}, err
	}
	var memo store.Memo
	if err := json.Unmarshal(envelope.Data, &memo); err != nil {
		return store.Memo{}, fmt.Errorf("decode memo: %w", err)
	}
	return memo, nil
}

func (a *API) do(ctx context.Context, method, path string, payload any) (apiEnvelope, error) {
	body, status, err := a.roundTrip(ctx, method, path, payload)
	if err != nil {
		return apiEnvelope{}, err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiEnvelope{}, fmt.Errorf("decode response (status %d): %w", status, err)
	}
	if !envelope.Success {
		code := envelope.Error
		if code == "" {
			code = "SERVER_ERROR"
		}
		return apiEnvelope{}, &APIError{Status: status, Code: code}
	}
	return envelope, nil
}

func (a *API) roundTrip(ctx context.Context, method, path string, payload any) ([]byte, int, error) {
	var reader *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return buf.Bytes(), resp.StatusCode, nil
}
