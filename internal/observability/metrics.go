package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for the portal's own traffic
// and for its calls against the external ticketing API.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	remoteCount   map[string]int64
	cacheHits     map[string]int64
	cacheMisses   map[string]int64
	refreshFailed map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		remoteCount:   make(map[string]int64),
		cacheHits:     make(map[string]int64),
		cacheMisses:   make(map[string]int64),
		refreshFailed: make(map[string]int64),
	}
}

// RecordRequest increments counters for inbound requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters for inbound requests.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordRemoteCall counts a call against the external API per operation and status.
func (m *Metrics) RecordRemoteCall(operation string, status int) {
	if m == nil {
		return
	}
	key := operation + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remoteCount[key]++
}

// RecordCacheHit counts a snapshot cache hit for the given view key.
func (m *Metrics) RecordCacheHit(key string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits[key]++
}

// RecordCacheMiss counts a snapshot cache miss (absent or malformed entry).
func (m *Metrics) RecordCacheMiss(key string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses[key]++
}

// RecordRefreshFailure counts a failed background refresh for a feed.
func (m *Metrics) RecordRefreshFailure(key string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshFailed[key]++
}
