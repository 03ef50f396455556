package prefs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecentListDedupesAndCaps(t *testing.T) {
	kv := NewMemoryKV()
	r := NewRecentList(kv, nil)
	base := time.Unix(1700000000, 0)
	r.now = func() time.Time { return base }

	for _, href := range []string{"/a", "/b", "/c", "/d", "/e", "/f"} {
		base = base.Add(time.Second)
		require.NoError(t, r.Add("page "+href, href, "table"))
	}

	items := r.Items()
	require.Len(t, items, maxRecentItems)
	require.Equal(t, "/f", items[0].Href, "newest first")
	require.Equal(t, "/b", items[4].Href, "oldest surviving entry last")

	// Re-adding an existing href moves it to the front without growing the list.
	base = base.Add(time.Second)
	require.NoError(t, r.Add("page /c", "/c", "table"))
	items = r.Items()
	require.Len(t, items, maxRecentItems)
	require.Equal(t, "/c", items[0].Href)
	require.Equal(t, base.UnixMilli(), items[0].Timestamp)
}

func TestRecentListSurvivesReload(t *testing.T) {
	kv := NewMemoryKV()
	r := NewRecentList(kv, nil)
	require.NoError(t, r.Add("Clients", "/general-settings/clients", "users"))

	r2 := NewRecentList(kv, nil)
	items := r2.Items()
	require.Len(t, items, 1)
	require.Equal(t, "/general-settings/clients", items[0].Href)
}

func TestRecentListDropsCorruptRecord(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(recentStorageKey, []byte("[oops")))

	r := NewRecentList(kv, nil)
	require.Empty(t, r.Items())

	// The corrupt record is removed, not left to fail every load.
	_, ok, err := kv.Get(recentStorageKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRecentListClear(t *testing.T) {
	kv := NewMemoryKV()
	r := NewRecentList(kv, nil)
	require.NoError(t, r.Add("Agents", "/general-settings/agents", "briefcase"))
	require.NoError(t, r.Clear())
	require.Empty(t, r.Items())
	require.Empty(t, NewRecentList(kv, nil).Items())
}
