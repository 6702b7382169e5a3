package persistence

import (
	"fmt"
	"fvm/internal/persistence/interfaces"
	"fvm/internal/providers"
	"fvm/internal/structures"
)

// NewKeyValueStore opens the configured driver and wraps it with the quota.
func NewKeyValueStore(conf *structures.Config, logger providers.Logger) (*QuotaStore, error) {
	var (
		inner interfaces.KeyValueStore
		err   error
	)

	switch conf.Storage.Driver {
	case "memory":
		inner = NewMemoryStore()
	case "file":
		compressor, cErr := NewZstdCompressor()
		if cErr != nil {
			return nil, cErr
		}
		inner, err = NewFileStore(conf.Storage.Path, compressor, logger)
	case "sqlite":
		inner, err = NewSQLiteStore(conf.Storage.Path)
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", ErrStorageUnavailable, conf.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Infof(providers.TypeStorage, "Opened %s storage at %q (quota %d bytes)", conf.Storage.Driver, conf.Storage.Path, conf.Storage.QuotaBytes)
	return NewQuotaStore(inner, conf.Storage.QuotaBytes), nil
}
