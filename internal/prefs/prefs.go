// Package prefs persists per-table column preferences and the recently-used
// navigation list through a pluggable key-value store.
package prefs

import (
	"encoding/json"

	"go.uber.org/zap"
)

const storageKeyPrefix = "table-preferences-"

// ActionsColumn is the pseudo-column for the row actions menu. When present
// in a default order it is always pinned to the leftmost position.
const ActionsColumn = "actions"

// TablePreferences is the persisted customization of one table: which columns
// show, and in what sequence.
type TablePreferences struct {
	ColumnOrder      []string        `json:"columnOrder"`
	ColumnVisibility map[string]bool `json:"columnVisibility"`
}

func (p TablePreferences) clone() TablePreferences {
	cp := TablePreferences{
		ColumnOrder:      append([]string(nil), p.ColumnOrder...),
		ColumnVisibility: make(map[string]bool, len(p.ColumnVisibility)),
	}
	for k, v := range p.ColumnVisibility {
		cp.ColumnVisibility[k] = v
	}
	return cp
}

// Store holds the live preferences of one table and writes every mutation
// through to the backing KV before returning.
type Store struct {
	kv                KV
	tableID           string
	defaultOrder      []string
	defaultVisibility map[string]bool
	prefs             TablePreferences
	logger            *zap.Logger
}

// NewStore loads the preferences for tableID, reconciling anything stored
// against the coded defaults. A missing or unreadable record falls back to
// the defaults; load failures are logged, never surfaced.
func NewStore(kv KV, tableID string, defaultOrder []string, defaultVisibility map[string]bool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		kv:                kv,
		tableID:           tableID,
		defaultOrder:      append([]string(nil), defaultOrder...),
		defaultVisibility: defaultVisibility,
		logger:            logger,
	}
	s.prefs = s.load()
	return s
}

func (s *Store) storageKey() string {
	return storageKeyPrefix + s.tableID
}

func (s *Store) load() TablePreferences {
	raw, ok, err := s.kv.Get(s.storageKey())
	if err != nil {
		s.logger.Warn("failed to read table preferences",
			zap.String("table", s.tableID), zap.Error(err))
		return s.defaults()
	}
	if !ok {
		return s.defaults()
	}

	var stored TablePreferences
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.Warn("failed to parse stored table preferences",
			zap.String("table", s.tableID), zap.Error(err))
		return s.defaults()
	}

	return reconcile(stored, normalizeOrder(s.defaultOrder), s.defaultVisibility)
}

// defaults returns the coded defaults with the actions column pinned first.
func (s *Store) defaults() TablePreferences {
	vis := make(map[string]bool, len(s.defaultVisibility))
	for k, v := range s.defaultVisibility {
		vis[k] = v
	}
	return TablePreferences{
		ColumnOrder:      normalizeOrder(s.defaultOrder),
		ColumnVisibility: vis,
	}
}

// normalizeOrder moves "actions" to index 0 when it appears later in the
// order. The input is not modified.
func normalizeOrder(order []string) []string {
	out := append([]string(nil), order...)
	for i, key := range out {
		if key == ActionsColumn && i > 0 {
			out = append(out[:i], out[i+1:]...)
			out = append([]string{ActionsColumn}, out...)
			break
		}
	}
	return out
}

// reconcile overlays a stored record on the current defaults: stored column
// order first (preserving its relative order), then any default keys the
// stored order is missing, each key exactly once. Visibility starts from the
// defaults and is overridden per key by stored values, so a newly introduced
// column keeps its coded default instead of vanishing.
func reconcile(stored TablePreferences, defaultOrder []string, defaultVisibility map[string]bool) TablePreferences {
	order := stored.ColumnOrder
	if len(order) == 0 {
		order = defaultOrder
	}

	seen := make(map[string]bool, len(order)+len(defaultOrder))
	merged := make([]string, 0, len(order)+len(defaultOrder))
	for _, key := range order {
		if !seen[key] {
			seen[key] = true
			merged = append(merged, key)
		}
	}
	for _, key := range defaultOrder {
		if !seen[key] {
			seen[key] = true
			merged = append(merged, key)
		}
	}

	vis := make(map[string]bool, len(defaultVisibility)+len(stored.ColumnVisibility))
	for k, v := range defaultVisibility {
		vis[k] = v
	}
	for k, v := range stored.ColumnVisibility {
		vis[k] = v
	}

	return TablePreferences{ColumnOrder: merged, ColumnVisibility: vis}
}

// Preferences returns a copy of the current preferences.
func (s *Store) Preferences() TablePreferences {
	return s.prefs.clone()
}

// SetColumnOrder replaces the column order and writes it through.
func (s *Store) SetColumnOrder(order []string) error {
	s.prefs.ColumnOrder = append([]string(nil), order...)
	return s.save()
}

// SetColumnVisibility toggles one column and writes it through.
func (s *Store) SetColumnVisibility(key string, visible bool) error {
	if s.prefs.ColumnVisibility == nil {
		s.prefs.ColumnVisibility = make(map[string]bool)
	}
	s.prefs.ColumnVisibility[key] = visible
	return s.save()
}

// Reset reverts to the coded defaults and writes them through. The result is
// identical to a fresh load with no stored record.
func (s *Store) Reset() error {
	s.prefs = s.defaults()
	return s.save()
}

func (s *Store) save() error {
	raw, err := json.Marshal(s.prefs)
	if err != nil {
		s.logger.Warn("failed to marshal table preferences",
			zap.String("table", s.tableID), zap.Error(err))
		return err
	}
	if err := s.kv.Set(s.storageKey(), raw); err != nil {
		s.logger.Warn("failed to persist table preferences",
			zap.String("table", s.tableID), zap.Error(err))
		return err
	}
	return nil
}
