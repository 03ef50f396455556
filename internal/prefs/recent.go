package prefs

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

const recentStorageKey = "recentlyUsed"

// maxRecentItems caps the recently-used list.
const maxRecentItems = 5

// RecentItem is one entry in the recently-used navigation list.
type RecentItem struct {
	Title     string `json:"title"`
	Href      string `json:"href"`
	Icon      string `json:"icon"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// RecentList is a capped most-recently-used list, newest first, de-duplicated
// by Href. It persists independently of table preferences.
type RecentList struct {
	kv     KV
	items  []RecentItem
	logger *zap.Logger
	now    func() time.Time
}

// NewRecentList loads the stored list. A corrupt record is dropped and the
// stored entry removed, mirroring a fresh start.
func NewRecentList(kv KV, logger *zap.Logger) *RecentList {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &RecentList{kv: kv, logger: logger, now: time.Now}

	raw, ok, err := kv.Get(recentStorageKey)
	if err != nil {
		logger.Warn("failed to read recently-used items", zap.Error(err))
		return r
	}
	if !ok {
		return r
	}
	if err := json.Unmarshal(raw, &r.items); err != nil {
		logger.Warn("failed to parse recently-used items", zap.Error(err))
		r.items = nil
		_ = kv.Delete(recentStorageKey)
	}
	return r
}

// Items returns a copy of the list, newest first.
func (r *RecentList) Items() []RecentItem {
	return append([]RecentItem(nil), r.items...)
}

// Add records a visit. An existing entry with the same Href moves to the
// front with a fresh timestamp.
func (r *RecentList) Add(title, href, icon string) error {
	item := RecentItem{
		Title:     title,
		Href:      href,
		Icon:      icon,
		Timestamp: r.now().UnixMilli(),
	}

	updated := make([]RecentItem, 0, len(r.items)+1)
	updated = append(updated, item)
	for _, existing := range r.items {
		if existing.Href != href {
			updated = append(updated, existing)
		}
	}
	if len(updated) > maxRecentItems {
		updated = updated[:maxRecentItems]
	}
	r.items = updated

	raw, err := json.Marshal(r.items)
	if err != nil {
		return err
	}
	if err := r.kv.Set(recentStorageKey, raw); err != nil {
		r.logger.Warn("failed to persist recently-used items", zap.Error(err))
		return err
	}
	return nil
}

// Clear empties the list and removes the stored record.
func (r *RecentList) Clear() error {
	r.items = nil
	return r.kv.Delete(recentStorageKey)
}
