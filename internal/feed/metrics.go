package feed

import "sync"

// StoreMetrics are per-store feed counters.
type StoreMetrics struct {
	Generated   int64 `json:"generated"`
	CacheHits   int64 `json:"cache_hits"`
	NotModified int64 `json:"not_modified"`
	Errors      int64 `json:"errors"`
}

// Metrics tracks per-store counters across concurrent requests.
type Metrics struct {
	mu     sync.Mutex
	stores map[string]*StoreMetrics
}

func NewMetrics() *Metrics {
	return &Metrics{stores: make(map[string]*StoreMetrics)}
}

func (m *Metrics) store(storeID string) *StoreMetrics {
	s, ok := m.stores[storeID]
	if !ok {
		s = &StoreMetrics{}
		m.stores[storeID] = s
	}
	return s
}

func (m *Metrics) IncGenerated(storeID string) {
	m.mu.Lock()
	m.store(storeID).Generated++
	m.mu.Unlock()
}

func (m *Metrics) IncCacheHit(storeID string) {
	m.mu.Lock()
	m.store(storeID).CacheHits++
	m.mu.Unlock()
}

func (m *Metrics) IncNotModified(storeID string) {
	m.mu.Lock()
	m.store(storeID).NotModified++
	m.mu.Unlock()
}

func (m *Metrics) IncError(storeID string) {
	m.mu.Lock()
	m.store(storeID).Errors++
	m.mu.Unlock()
}

// Snapshot copies the current counters for reporting.
func (m *Metrics) Snapshot() map[string]StoreMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]StoreMetrics, len(m.stores))
	for storeID, s := range m.stores {
		out[storeID] = *s
	}
	return out
}
