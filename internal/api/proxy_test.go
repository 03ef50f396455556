package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestForwardSuccessPassesBodyThrough(t *testing.T) {
	var gotToken string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"CLNTID":"C1"}],"totalPages":1}`))
	}))
	defer backend.Close()

	proxy := NewProxy(backend.URL, NewStaticSession("tok-1", "alice"), zap.NewNop())
	result := proxy.Forward(context.Background(), "client", http.MethodGet, Options{
		Params: map[string]string{"COMPID": "PLL"},
	})

	require.Equal(t, http.StatusOK, result.Status)
	require.Equal(t, "tok-1", gotToken)
	require.JSONEq(t, `{"data":[{"CLNTID":"C1"}],"totalPages":1}`, string(result.Body))
	require.Equal(t, "*", result.Header.Get("Access-Control-Allow-Origin"))
}

func TestForwardRetriesOnceOnExpiredCredential(t *testing.T) {
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token has expired"}`))
	}))
	defer backend.Close()

	session := NewStaticSession("stale", "alice")
	var refreshed atomic.Int32
	session.RefreshFunc = func(ctx context.Context) (string, error) {
		refreshed.Add(1)
		return "fresh", nil
	}

	proxy := NewProxy(backend.URL, session, zap.NewNop())
	proxy.backoff = time.Millisecond

	result := proxy.Forward(context.Background(), "client", http.MethodGet, Options{
		ErrorMessage: "Failed to fetch clients data",
	})

	require.Equal(t, int32(2), calls.Load(), "one original attempt plus one retry")
	require.Equal(t, int32(1), refreshed.Load())
	require.Equal(t, http.StatusUnauthorized, result.Status)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(result.Body, &env))
	require.Equal(t, "Failed to fetch clients data", env.Error)
	require.Equal(t, "token has expired", env.Message())
}

func TestForwardRetrySucceedsWithFreshCredential(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("token") != "fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"token has expired"}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[],"totalPages":0}`))
	}))
	defer backend.Close()

	session := NewStaticSession("stale", "alice")
	session.RefreshFunc = func(ctx context.Context) (string, error) { return "fresh", nil }

	proxy := NewProxy(backend.URL, session, zap.NewNop())
	proxy.backoff = time.Millisecond

	result := proxy.Forward(context.Background(), "client", http.MethodGet, Options{})
	require.Equal(t, http.StatusOK, result.Status)
}

func TestForwardNoCredentialIs401WithoutBackendCall(t *testing.T) {
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer backend.Close()

	proxy := NewProxy(backend.URL, NewStaticSession("", "alice"), zap.NewNop())
	result := proxy.Forward(context.Background(), "client", http.MethodGet, Options{})

	require.Equal(t, http.StatusUnauthorized, result.Status)
	require.Zero(t, calls.Load())

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(result.Body, &env))
	require.Equal(t, "Unauthorized", env.Error)
}

func TestForwardMissingBaseURLIsConfigurationError(t *testing.T) {
	proxy := NewProxy("", NewStaticSession("tok", "alice"), zap.NewNop())
	result := proxy.Forward(context.Background(), "client", http.MethodGet, Options{})

	require.Equal(t, http.StatusInternalServerError, result.Status)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(result.Body, &env))
	require.Equal(t, "Configuration Error", env.Error)
}

func TestForwardTransportFailureIs500(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	proxy := NewProxy(backend.URL, NewStaticSession("tok", "alice"), zap.NewNop())
	result := proxy.Forward(context.Background(), "client", http.MethodGet, Options{
		ErrorMessage: "Failed to fetch clients data",
	})

	require.Equal(t, http.StatusInternalServerError, result.Status)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(result.Body, &env))
	require.Equal(t, "Failed to fetch clients data", env.Error)
}

func TestForwardUpstreamErrorKeepsStatus(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"CLNTID already exists"}`))
	}))
	defer backend.Close()

	proxy := NewProxy(backend.URL, NewStaticSession("tok", "alice"), zap.NewNop())
	result := proxy.Forward(context.Background(), "client", http.MethodPost, Options{
		Body:         map[string]any{"CLNTID": "C1"},
		ErrorMessage: "Failed to create client",
	})

	require.Equal(t, http.StatusBadRequest, result.Status)

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(result.Body, &env))
	require.Equal(t, "Failed to create client", env.Error)
	require.Equal(t, "CLNTID already exists", env.Message())
}

func TestForwardInvalidBackendJSONIs500(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer backend.Close()

	proxy := NewProxy(backend.URL, NewStaticSession("tok", "alice"), zap.NewNop())
	result := proxy.Forward(context.Background(), "client", http.MethodGet, Options{})

	require.Equal(t, http.StatusInternalServerError, result.Status)
}

func TestErrorEnvelopeMessagePrecedence(t *testing.T) {
	cases := []struct {
		name string
		env  ErrorEnvelope
		want string
	}{
		{"structured error field", ErrorEnvelope{Error: "outer", Details: `{"error":"inner"}`}, "inner"},
		{"structured message field", ErrorEnvelope{Error: "outer", Details: `{"message":"msg"}`}, "msg"},
		{"raw details", ErrorEnvelope{Error: "outer", Details: "plain text"}, "plain text"},
		{"outer only", ErrorEnvelope{Error: "outer"}, "outer"},
		{"empty", ErrorEnvelope{}, "request failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.env.Message())
		})
	}
}
