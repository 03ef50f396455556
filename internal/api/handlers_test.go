package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBackend is an in-memory stand-in for the upstream general-settings
// service, keyed by CLNTID.
type fakeBackend struct {
	mu      sync.Mutex
	clients map[string]map[string]any
	deletes int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{clients: make(map[string]map[string]any)}
}

func (b *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if r.URL.Path != "/client" {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			filter := r.URL.Query().Get("CLNTID")
			data := make([]map[string]any, 0, len(b.clients))
			for id, record := range b.clients {
				if filter != "" && !strings.Contains(id, filter) {
					continue
				}
				data = append(data, record)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": data, "totalPages": 1,
			})
		case http.MethodPost, http.MethodPut:
			var record map[string]any
			if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			id, _ := record["CLNTID"].(string)
			b.clients[id] = record
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
		case http.MethodDelete:
			b.deletes++
			delete(b.clients, r.URL.Query().Get("CLNTID"))
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
		}
	})
}

func newTestServer(t *testing.T, backendURL, username string) *httptest.Server {
	t.Helper()
	session := NewStaticSession("tok", username)
	proxy := NewProxy(backendURL, session, zap.NewNop())
	srv := httptest.NewServer(NewServer(proxy, session, zap.NewNop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLifecycleThroughProxy(t *testing.T) {
	backend := newFakeBackend()
	upstream := httptest.NewServer(backend.handler())
	defer upstream.Close()

	srv := newTestServer(t, upstream.URL, "alice")
	route := srv.URL + "/api/general-settings/clients"

	// Create: the authenticated username is stamped into CRTUSR.
	resp, err := http.Post(route, "application/json",
		strings.NewReader(`{"CLNTID":"C1","CLNTDSC":"Test Client"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	backend.mu.Lock()
	stored := backend.clients["C1"]
	backend.mu.Unlock()
	require.Equal(t, "alice", stored["CRTUSR"])

	// Filtered fetch returns it.
	resp, err = http.Get(route + "?CLNTID=C1")
	require.NoError(t, err)
	var page struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	resp.Body.Close()
	require.Len(t, page.Data, 1)
	require.Equal(t, "Test Client", page.Data[0]["CLNTDSC"])

	// Update stamps CHGUSR.
	req, err := http.NewRequest(http.MethodPut, route,
		strings.NewReader(`{"CLNTID":"C1","CLNTDSC":"Renamed"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	backend.mu.Lock()
	stored = backend.clients["C1"]
	backend.mu.Unlock()
	require.Equal(t, "alice", stored["CHGUSR"])

	// Delete with the full composite key, then the record is gone.
	req, err = http.NewRequest(http.MethodDelete, route+"?COMPID=PLL&CLNTID=C1", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(route + "?CLNTID=C1")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	resp.Body.Close()
	require.Empty(t, page.Data)
}

func TestDeleteWithoutFullKeyIs400AndNeverReachesBackend(t *testing.T) {
	backend := newFakeBackend()
	upstream := httptest.NewServer(backend.handler())
	defer upstream.Close()

	srv := newTestServer(t, upstream.URL, "alice")
	route := srv.URL + "/api/general-settings/clients"

	req, err := http.NewRequest(http.MethodDelete, route+"?COMPID=PLL", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var env ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Equal(t, "Missing required parameters: COMPID and CLNTID", env.Error)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	require.Zero(t, backend.deletes)
}

func TestListAppliesDefaultsBeforeForwarding(t *testing.T) {
	var gotQuery map[string][]string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"data":[],"totalPages":0}`))
	}))
	defer upstream.Close()

	srv := newTestServer(t, upstream.URL, "alice")

	resp, err := http.Get(srv.URL + "/api/general-settings/clients?sortColumn=CLNTDSC&sortDirection=desc")
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, []string{"PLL"}, gotQuery["COMPID"])
	require.Equal(t, []string{"1"}, gotQuery["pageNumber"])
	require.Equal(t, []string{"100"}, gotQuery["pageSize"])
	require.Equal(t, []string{"CLNTDSC"}, gotQuery["SortField"])
	require.Equal(t, []string{"desc"}, gotQuery["SortDirection"])
	require.Equal(t, []string{"0"}, gotQuery["CLEN1"])
}

func TestOptionsPreflightIs204WithCORSHeaders(t *testing.T) {
	srv := newTestServer(t, "http://unused.invalid", "alice")

	req, err := http.NewRequest(http.MethodOptions,
		srv.URL+"/api/general-settings/countries", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestUnknownMethodIs405(t *testing.T) {
	srv := newTestServer(t, "http://unused.invalid", "alice")

	req, err := http.NewRequest(http.MethodPatch,
		srv.URL+"/api/general-settings/agents", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestMutateNullBodyStampsUsernameOnly(t *testing.T) {
	var gotBody map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer upstream.Close()

	srv := newTestServer(t, upstream.URL, "alice")

	// A bare null is valid JSON and decodes into a nil map; it must still
	// reach the backend as an audited record, not crash the handler.
	resp, err := http.Post(srv.URL+"/api/general-settings/clients",
		"application/json", strings.NewReader("null"))
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, map[string]any{"CRTUSR": "alice"}, gotBody)
}

func TestMutateRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t, "http://unused.invalid", "alice")

	resp, err := http.Post(srv.URL+"/api/general-settings/clients",
		"application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var env ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Equal(t, "Invalid request body", env.Error)
}
