// Package api implements the authenticated request proxy between the
// dashboard and the upstream backend: bearer-credential forwarding with a
// transparent retry on expiry, a uniform error envelope, and the HTTP
// surface the entity screens consume.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultErrorMessage = "Failed to process request"

// Proxy forwards requests to the upstream backend, attaching the session's
// credential and retrying once on expiry with a freshly obtained one.
type Proxy struct {
	baseURL    string
	session    Session
	httpClient *http.Client
	logger     *zap.Logger

	// backoff is the fixed wait before a retry, giving the session layer
	// time to refresh the credential.
	backoff time.Duration
}

// Options configures one forwarded request.
type Options struct {
	Params       map[string]string
	Body         any
	ErrorMessage string
	// MaxRetries is the retry budget on credential expiry; zero means the
	// default of one retry.
	MaxRetries int
}

// Result is what a Forward call always produces; no code path escapes as an
// unhandled fault.
type Result struct {
	Status int
	Header http.Header
	Body   []byte
}

// Write sends the result over an HTTP response.
func (r *Result) Write(w http.ResponseWriter) {
	for key, values := range r.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(r.Status)
	_, _ = w.Write(r.Body)
}

// NewProxy creates a proxy against baseURL. An empty baseURL is tolerated
// here and reported as a configuration error on the first Forward.
func NewProxy(baseURL string, session Session, logger *zap.Logger) *Proxy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Proxy{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		session:    session,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		backoff:    time.Second,
	}
}

// Forward proxies one request to the named backend endpoint. Query parameter
// values pass through unvalidated. On success the backend's JSON body is
// returned verbatim with permissive cross-origin headers; every failure maps
// to the uniform error envelope.
func (p *Proxy) Forward(ctx context.Context, endpoint, method string, opts Options) *Result {
	requestID := uuid.NewString()
	errorMessage := opts.ErrorMessage
	if errorMessage == "" {
		errorMessage = defaultErrorMessage
	}
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = 1
	}

	if p.baseURL == "" {
		p.logger.Error("backend base URL is not configured", zap.String("req", requestID))
		return envelope(http.StatusInternalServerError, "Configuration Error",
			"API base URL is not set; check the API_BASE_URL environment variable")
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		var token string
		var err error
		if attempt == 0 {
			token, err = p.session.Token(ctx)
		} else {
			token, err = p.session.Refresh(ctx)
		}
		if err != nil {
			p.logger.Warn("no usable credential",
				zap.String("req", requestID), zap.Error(err))
			return envelope(http.StatusUnauthorized, "Unauthorized", "")
		}

		result, expired := p.attempt(ctx, requestID, endpoint, method, token, errorMessage, opts)
		if expired && attempt < maxRetries {
			p.logger.Info("credential expired, retrying",
				zap.String("req", requestID), zap.Int("attempt", attempt+1))
			select {
			case <-time.After(p.backoff):
			case <-ctx.Done():
				return envelope(http.StatusInternalServerError, errorMessage, ctx.Err().Error())
			}
			continue
		}
		return result
	}

	return envelope(http.StatusInternalServerError, "Failed to process request after retries", "")
}

// attempt performs a single backend call. The second return value reports
// that the backend rejected the credential as expired, so the caller can
// spend its retry budget.
func (p *Proxy) attempt(ctx context.Context, requestID, endpoint, method, token, errorMessage string, opts Options) (*Result, bool) {
	reqURL := p.baseURL + "/" + endpoint
	if len(opts.Params) > 0 {
		values := url.Values{}
		for k, v := range opts.Params {
			values.Set(k, v)
		}
		reqURL += "?" + values.Encode()
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		raw, err := json.Marshal(opts.Body)
		if err != nil {
			return envelope(http.StatusInternalServerError, errorMessage, err.Error()), false
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return envelope(http.StatusInternalServerError, errorMessage, err.Error()), false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token", token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Warn("backend request failed",
			zap.String("req", requestID), zap.String("endpoint", endpoint), zap.Error(err))
		return envelope(http.StatusInternalServerError, errorMessage, err.Error()), false
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope(http.StatusInternalServerError, errorMessage, err.Error()), false
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorText := string(raw)
		var parsed struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			parsed.Message = errorText
		}
		if strings.Contains(parsed.Message, "token has expired") {
			return envelope(resp.StatusCode, errorMessage, errorText), true
		}

		p.logger.Warn("backend returned error",
			zap.String("req", requestID),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return envelope(resp.StatusCode, errorMessage, errorText), false
	}

	if !json.Valid(raw) {
		return envelope(http.StatusInternalServerError, errorMessage, "invalid JSON from backend"), false
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	addCORSHeaders(header)
	return &Result{Status: resp.StatusCode, Header: header, Body: raw}, false
}

// addCORSHeaders makes a response consumable directly from a browser context.
func addCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func envelope(status int, message, details string) *Result {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	raw, err := json.Marshal(ErrorEnvelope{Error: message, Details: details})
	if err != nil {
		raw = []byte(`{"error":"Internal server error"}`)
	}
	return &Result{Status: status, Header: header, Body: raw}
}

// decodeEnvelope reads an error envelope out of a response body, falling
// back to the raw text when the body is not structured.
func decodeEnvelope(status int, raw []byte) error {
	var env ErrorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error == "" {
		env = ErrorEnvelope{Error: fmt.Sprintf("request failed with status %d", status), Details: string(raw)}
	}
	return errors.New(env.Message())
}
