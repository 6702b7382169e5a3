package persistence

import (
	"fvm/internal/persistence/interfaces"
	"sync"
)

// QuotaStore caps the summed size of all keys and values, the way browser
// local storage does. A Set that would cross the quota fails with
// ErrQuotaExceeded and leaves the store unchanged.
type QuotaStore struct {
	mu    sync.Mutex
	inner interfaces.KeyValueStore
	quota int
}

func NewQuotaStore(inner interfaces.KeyValueStore, quota int) *QuotaStore {
	return &QuotaStore{inner: inner, quota: quota}
}

func (q *QuotaStore) Quota() int {
	return q.quota
}

// Usage returns the summed length of every key and value.
func (q *QuotaStore) Usage() (int, error) {
	return usage(q.inner, "")
}

func usage(kv interfaces.KeyValueStore, skip string) (int, error) {
	keys, err := kv.Keys()
	if err != nil {
		return 0, err
	}
	used := 0
	for _, k := range keys {
		if k == skip {
			continue
		}
		v, ok, err := kv.Get(k)
		if err != nil {
			return 0, err
		}
		if ok {
			used += len(k) + len(v)
		}
	}
	return used, nil
}

func (q *QuotaStore) Get(key string) ([]byte, bool, error) {
	return q.inner.Get(key)
}

func (q *QuotaStore) Set(key string, value []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	used, err := usage(q.inner, key)
	if err != nil {
		return err
	}
	if used+len(key)+len(value) > q.quota {
		return ErrQuotaExceeded
	}
	return q.inner.Set(key, value)
}

func (q *QuotaStore) Remove(key string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inner.Remove(key)
}

func (q *QuotaStore) Keys() ([]string, error) {
	return q.inner.Keys()
}

func (q *QuotaStore) Close() error {
	return q.inner.Close()
}
