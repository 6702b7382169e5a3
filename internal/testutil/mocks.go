package testutil

import (
	"context"
	"fvm/internal/providers"
	"sort"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns the number of entries logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                  sync.Mutex
	Requests            map[string]int
	CacheHits           map[string]int
	CacheMisses         map[string]int
	PersistenceOps      map[string]int
	PersistenceFailures map[string]int
	ShareDecodes        map[string]int
	Buttons             map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests:            map[string]int{},
		CacheHits:           map[string]int{},
		CacheMisses:         map[string]int{},
		PersistenceOps:      map[string]int{},
		PersistenceFailures: map[string]int{},
		ShareDecodes:        map[string]int{},
		Buttons:             map[string]int{},
	}
}

func (m *MockMetrics) inc(target *map[string]int, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if *target == nil {
		*target = map[string]int{}
	}
	(*target)[key]++
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.inc(&m.Requests, endpoint)
}
func (m *MockMetrics) ObserveRequestDuration(string, time.Duration) {}
func (m *MockMetrics) IncCacheHits(area string) {
	m.inc(&m.CacheHits, area)
}
func (m *MockMetrics) IncCacheMisses(area string) {
	m.inc(&m.CacheMisses, area)
}
func (m *MockMetrics) ObservePersistenceDuration(op string, _ time.Duration) {
	m.inc(&m.PersistenceOps, op)
}
func (m *MockMetrics) IncPersistenceFailures(reason string) {
	m.inc(&m.PersistenceFailures, reason)
}
func (m *MockMetrics) IncShareDecodes(result string) {
	m.inc(&m.ShareDecodes, result)
}
func (m *MockMetrics) SetButtonsTotal(role string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Buttons == nil {
		m.Buttons = map[string]int{}
	}
	m.Buttons[role] = count
}

// Get returns a counter value under the metrics lock.
func (m *MockMetrics) Get(counter map[string]int, key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return counter[key]
}

// MockKV implements interfaces.KeyValueStore in memory with injectable
// failures.
type MockKV struct {
	mu        sync.Mutex
	Data      map[string][]byte
	SetErr    error
	GetErr    error
	RemoveErr error
	SetCalls  int
	Removed   []string
}

func NewMockKV() *MockKV {
	return &MockKV{Data: make(map[string][]byte)}
}

func (m *MockKV) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.Data[key]
	return v, ok, nil
}

func (m *MockKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MockKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, key)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.Data, key)
	return nil
}

func (m *MockKV) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Data))
	for k := range m.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MockKV) Close() error { return nil }

// MockStateKeeper implements interfaces.StateKeeper.
type MockStateKeeper struct {
	mu           sync.Mutex
	RestoreErr   error
	FlushErrs    []error
	RestoreCalls int
	FlushCalls   int
}

func (m *MockStateKeeper) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RestoreCalls++
	return m.RestoreErr
}

// Flush returns the queued errors in order, then nil.
func (m *MockStateKeeper) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FlushCalls++
	if len(m.FlushErrs) == 0 {
		return nil
	}
	err := m.FlushErrs[0]
	m.FlushErrs = m.FlushErrs[1:]
	return err
}

// MockQR implements providers.QRProviderInterface.
type MockQR struct {
	Image []byte
	Err   error
	Calls []string
}

func (m *MockQR) ImageURL(data string) string {
	return "https://qr.example/?data=" + data
}

func (m *MockQR) Fetch(_ context.Context, data string) ([]byte, error) {
	m.Calls = append(m.Calls, data)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Image, nil
}
