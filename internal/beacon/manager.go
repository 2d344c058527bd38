package beacon

import (
	"github.com/dshills/repere/internal/logging"
)

// Manager selects the beacons to show for a route.
type Manager struct {
	cfg   *Config
	store Store
	log   *logging.Logger
}

// NewManager creates a manager over cfg. A nil store means a fresh
// MemoryStore; a nil logger discards output.
func NewManager(cfg *Config, store Store, log *logging.Logger) *Manager {
	if cfg == nil {
		cfg = &Config{}
	}
	if store == nil {
		store = NewMemoryStore()
	}
	if log == nil {
		log = logging.Null()
	}
	return &Manager{cfg: cfg, store: store, log: log}
}

// Config returns the definitions in use.
func (m *Manager) Config() *Config {
	return m.cfg
}

// Store returns the dismissal store.
func (m *Manager) Store() Store {
	return m.store
}

// SetConfig swaps the definitions, e.g. after the file changed.
func (m *Manager) SetConfig(cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	m.cfg = cfg
}

// MatchingPages returns every page whose pattern matches path, in file
// order.
func (m *Manager) MatchingPages(path string) []Page {
	var out []Page
	var ids []string
	for _, p := range m.cfg.Pages {
		if MatchPath(path, p.Path) {
			out = append(out, p)
			ids = append(ids, p.ID)
		}
	}
	m.log.Debug("path %s matched pages %v", path, ids)
	return out
}

// ActiveBeacons returns the undismissed beacons of every matching page.
// When an ID appears on several matching pages only the first is kept.
func (m *Manager) ActiveBeacons(path string) []Beacon {
	pages := m.MatchingPages(path)
	if len(pages) == 0 {
		m.log.Debug("no matching pages for %s", path)
		return nil
	}

	seen := make(map[string]bool)
	var out []Beacon
	for _, p := range pages {
		for _, b := range p.Beacons {
			if seen[b.ID] {
				m.log.Warn("duplicate beacon id %q in page %q, skipping", b.ID, p.ID)
				continue
			}
			seen[b.ID] = true

			if m.store.IsDismissed(b.ID) {
				m.log.Debug("beacon %s is dismissed", b.ID)
				continue
			}
			out = append(out, b)
		}
	}
	m.log.Debug("%d active beacons for %s", len(out), path)
	return out
}

// Dismiss marks a beacon dismissed.
func (m *Manager) Dismiss(id string) {
	m.store.Dismiss(id)
	m.log.Info("dismissed beacon %s", id)
}
