//go:build wireinject
// +build wireinject

package di

import (
	"fvm/internal"
	"fvm/internal/controllers"
	"fvm/internal/persistence"
	"fvm/internal/persistence/interfaces"
	"fvm/internal/providers"
	"fvm/internal/services"
	"fvm/internal/share"
	"fvm/internal/structures"

	wire "github.com/google/wire"
)

var serviceSet = wire.NewSet(
	providers.NewConfigProvider,
	provideLogger,
	providers.NewMetricsProvider,
	providers.NewInstrumentedCacheProvider,
	providers.NewQRProvider,

	provideKeyValueStore,
	wire.Bind(new(interfaces.KeyValueStore), new(*persistence.QuotaStore)),
	persistence.NewVersionedStore,
	wire.Bind(new(persistence.VersionedStoreInterface), new(*persistence.VersionedStore)),
	share.NewCodec,
	provideFamilyService,
	wire.Bind(new(services.FamilyServiceInterface), new(*services.FamilyService)),
	wire.Bind(new(interfaces.StateKeeper), new(*services.FamilyService)),
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		serviceSet,
		persistence.NewScheduler,
		controllers.NewApiController,
		controllers.NewShareController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}

func InitService(cfg *structures.CliFlags) (services.FamilyServiceInterface, func(), error) {

	wire.Build(serviceSet)

	return nil, nil, nil
}
