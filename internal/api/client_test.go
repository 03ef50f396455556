package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cargodesk/internal/table"
)

type clientRecord struct {
	CLNTID  string `json:"CLNTID"`
	CLNTDSC string `json:"CLNTDSC"`
}

func TestClientListDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/general-settings/clients", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("pageNumber"))
		require.Equal(t, "CLNTDSC", r.URL.Query().Get("sortColumn"))
		require.Equal(t, "asc", r.URL.Query().Get("sortDirection"))
		_, _ = w.Write([]byte(`{"data":[{"CLNTID":"C1","CLNTDSC":"One"}],"totalPages":3}`))
	}))
	defer srv.Close()

	c := NewClient[clientRecord](srv.URL, "clients")
	page, err := c.List(context.Background(), ListQuery{
		Page: 2,
		Sort: table.SortState{Column: "CLNTDSC", Direction: table.SortAsc},
	})
	require.NoError(t, err)
	require.Equal(t, 3, page.TotalPages)
	require.Equal(t, []clientRecord{{CLNTID: "C1", CLNTDSC: "One"}}, page.Data)
}

func TestClientListErrorUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(ErrorEnvelope{
			Error:   "Failed to fetch clients data",
			Details: `{"message":"token has expired"}`,
		})
	}))
	defer srv.Close()

	c := NewClient[clientRecord](srv.URL, "clients")
	_, err := c.List(context.Background(), ListQuery{})
	require.EqualError(t, err, "token has expired")
}

func TestClientListSupersedesInFlightFetch(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageNumber") == "1" {
			// Hold the first fetch until the second has been issued.
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
			_, _ = w.Write([]byte(`{"data":[{"CLNTID":"stale"}],"totalPages":1}`))
			return
		}
		once.Do(func() { close(release) })
		_, _ = w.Write([]byte(`{"data":[{"CLNTID":"fresh"}],"totalPages":1}`))
	}))
	defer srv.Close()

	c := NewClient[clientRecord](srv.URL, "clients")

	firstErr := make(chan error, 1)
	go func() {
		_, err := c.List(context.Background(), ListQuery{Page: 1})
		firstErr <- err
	}()

	// Let the first request reach the server before superseding it.
	time.Sleep(50 * time.Millisecond)

	page, err := c.List(context.Background(), ListQuery{Page: 2})
	require.NoError(t, err)
	require.Equal(t, "fresh", page.Data[0].CLNTID)

	select {
	case err := <-firstErr:
		require.True(t, errors.Is(err, ErrSuperseded), "stale fetch must not land: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded fetch never completed")
	}
}

func TestClientDeleteSendsCompositeKey(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewClient[clientRecord](srv.URL, "clients")
	err := c.Delete(context.Background(), map[string]string{"COMPID": "PLL", "CLNTID": "C1"})
	require.NoError(t, err)
	require.Equal(t, []string{"PLL"}, gotQuery["COMPID"])
	require.Equal(t, []string{"C1"}, gotQuery["CLNTID"])
}
