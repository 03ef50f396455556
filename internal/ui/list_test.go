package ui

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"cargodesk/internal/model"
	"cargodesk/internal/prefs"
)

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDeleteAddressesRowCompanyPartition(t *testing.T) {
	var gotQuery url.Values
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer backend.Close()

	screen := NewClientsScreen(prefs.NewMemoryKV(), backend.URL, nil)
	defer screen.Close()

	rows := []model.Client{{COMPID: "ACM", CLNTID: "C9", CLNTDSC: "Acme Freight"}}
	screen.Update(model.PageLoadedMsg{TableID: "clients", Rows: rows, Page: 1, TotalPages: 1})

	cmd := screen.Update(keyPress('d'))
	require.NotNil(t, cmd)

	msg := cmd()
	deleted, ok := msg.(model.DeletedMsg)
	require.True(t, ok, "unexpected message %T", msg)
	require.Equal(t, "C9", deleted.ID)

	// The record's own partition, not the default one.
	require.Equal(t, "ACM", gotQuery.Get("COMPID"))
	require.Equal(t, "C9", gotQuery.Get("CLNTID"))
}

func TestDeleteFallsBackToDefaultPartition(t *testing.T) {
	var gotQuery url.Values
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer backend.Close()

	screen := NewClientsScreen(prefs.NewMemoryKV(), backend.URL, nil)
	defer screen.Close()

	rows := []model.Client{{CLNTID: "C9", CLNTDSC: "No Partition"}}
	screen.Update(model.PageLoadedMsg{TableID: "clients", Rows: rows, Page: 1, TotalPages: 1})

	cmd := screen.Update(keyPress('d'))
	require.NotNil(t, cmd)
	cmd()

	require.Equal(t, "PLL", gotQuery.Get("COMPID"))
}
