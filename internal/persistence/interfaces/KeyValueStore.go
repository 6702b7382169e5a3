package interfaces

// KeyValueStore is a string-keyed blob store. Get reports ok=false for a
// missing key; Remove of a missing key is not an error.
type KeyValueStore interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Remove(key string) error
	Keys() ([]string, error)
	Close() error
}
