package di

import (
	"fvm/internal/persistence"
	"fvm/internal/providers"
	"fvm/internal/services"
	"fvm/internal/share"
	"fvm/internal/structures"
)

// provideKeyValueStore opens the configured store and closes it on cleanup.
func provideKeyValueStore(conf *structures.Config, logger providers.Logger) (*persistence.QuotaStore, func(), error) {
	kv, err := persistence.NewKeyValueStore(conf, logger)
	if err != nil {
		return nil, nil, err
	}
	return kv, func() {
		if err := kv.Close(); err != nil {
			logger.Errorf(providers.TypeStorage, "Failed to close storage: %s", err)
		}
	}, nil
}

// provideFamilyService builds the service and stops its auto-saver on cleanup.
func provideFamilyService(conf *structures.Config, store persistence.VersionedStoreInterface, codec share.CodecInterface, qr providers.QRProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) (*services.FamilyService, func()) {
	svc := services.NewFamilyService(conf, store, codec, qr, metrics, logger)
	return svc, svc.Close
}

// provideLogger opens the log files and closes them on cleanup.
func provideLogger(conf *structures.Config) (providers.Logger, func(), error) {
	logger, err := providers.NewLogProvider(conf)
	if err != nil {
		return nil, nil, err
	}
	return logger, logger.Close, nil
}
