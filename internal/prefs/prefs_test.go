package prefs

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var (
	testOrder      = []string{"CLNTID", "CLNTDSC", "actions", "Phone"}
	testVisibility = map[string]bool{
		"CLNTID":  true,
		"CLNTDSC": true,
		"actions": true,
		"Phone":   false,
	}
)

func TestLoadWithoutStoredRecordUsesDefaultsWithActionsFirst(t *testing.T) {
	s := NewStore(NewMemoryKV(), "clients", testOrder, testVisibility, nil)

	got := s.Preferences()
	want := []string{"actions", "CLNTID", "CLNTDSC", "Phone"}
	if diff := cmp.Diff(want, got.ColumnOrder); diff != "" {
		t.Errorf("column order mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, testVisibility, got.ColumnVisibility)
}

func TestReconcileAddsNewDefaultColumnOnce(t *testing.T) {
	kv := NewMemoryKV()

	// Stored record predates the Phone column.
	stored := TablePreferences{
		ColumnOrder:      []string{"CLNTDSC", "actions", "CLNTID"},
		ColumnVisibility: map[string]bool{"CLNTDSC": false},
	}
	raw, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, kv.Set("table-preferences-clients", raw))

	s := NewStore(kv, "clients", testOrder, testVisibility, nil)
	got := s.Preferences()

	count := 0
	for _, k := range got.ColumnOrder {
		if k == "Phone" {
			count++
		}
	}
	require.Equal(t, 1, count, "new default column must appear exactly once")

	// Stored relative order wins for stored keys; new keys follow in default order.
	want := []string{"CLNTDSC", "actions", "CLNTID", "Phone"}
	if diff := cmp.Diff(want, got.ColumnOrder); diff != "" {
		t.Errorf("column order mismatch (-want +got):\n%s", diff)
	}

	// The new column keeps its coded default, not false-by-omission.
	require.Equal(t, false, got.ColumnVisibility["Phone"])
	require.Equal(t, true, got.ColumnVisibility["CLNTID"])
	// Stored override survives.
	require.Equal(t, false, got.ColumnVisibility["CLNTDSC"])
}

func TestReconcileToleratesStaleStoredKeys(t *testing.T) {
	kv := NewMemoryKV()
	stored := TablePreferences{
		ColumnOrder:      []string{"REMOVED", "CLNTID", "CLNTDSC", "actions", "Phone"},
		ColumnVisibility: map[string]bool{"REMOVED": true},
	}
	raw, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, kv.Set("table-preferences-clients", raw))

	s := NewStore(kv, "clients", testOrder, testVisibility, nil)
	got := s.Preferences()

	// Stale keys stay in the order (they are filtered at render time).
	require.Contains(t, got.ColumnOrder, "REMOVED")
	require.Len(t, got.ColumnOrder, 5)
}

func TestCorruptRecordFallsBackToDefaults(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set("table-preferences-clients", []byte("{not json")))

	s := NewStore(kv, "clients", testOrder, testVisibility, nil)
	got := s.Preferences()
	require.Equal(t, []string{"actions", "CLNTID", "CLNTDSC", "Phone"}, got.ColumnOrder)
}

func TestToggleSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	kv, err := OpenFileKV(path)
	require.NoError(t, err)

	s := NewStore(kv, "clients", testOrder, testVisibility, nil)
	require.NoError(t, s.SetColumnVisibility("Phone", true))

	// Simulate a process restart: reopen the file, reload the store.
	kv2, err := OpenFileKV(path)
	require.NoError(t, err)
	s2 := NewStore(kv2, "clients", testOrder, testVisibility, nil)
	require.True(t, s2.Preferences().ColumnVisibility["Phone"])
}

func TestResetIsIdempotentAndMatchesFreshLoad(t *testing.T) {
	kv := NewMemoryKV()
	s := NewStore(kv, "clients", testOrder, testVisibility, nil)

	require.NoError(t, s.SetColumnOrder([]string{"Phone", "actions", "CLNTID", "CLNTDSC"}))
	require.NoError(t, s.SetColumnVisibility("CLNTID", false))

	require.NoError(t, s.Reset())
	first := s.Preferences()
	require.NoError(t, s.Reset())
	second := s.Preferences()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("reset is not idempotent (-first +second):\n%s", diff)
	}

	fresh := NewStore(NewMemoryKV(), "clients", testOrder, testVisibility, nil).Preferences()
	if diff := cmp.Diff(fresh, first); diff != "" {
		t.Errorf("reset differs from fresh load (-fresh +reset):\n%s", diff)
	}
}

func TestSQLiteKVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	kv, err := OpenSQLiteKV(path)
	require.NoError(t, err)
	defer kv.Close()

	_, ok, err := kv.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, kv.Set("k", []byte(`{"a":1}`)))
	require.NoError(t, kv.Set("k", []byte(`{"a":2}`)))

	v, ok, err := kv.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"a":2}`, string(v))

	require.NoError(t, kv.Delete("k"))
	_, ok, err = kv.Get("k")
	require.NoError(t, err)
	require.False(t, ok)
}
