package internal

import (
	"fvm/internal/controllers"
	"fvm/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, shareController *controllers.ShareController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/state", http.HandlerFunc(apiController.GetState))
	routers.Put("/theme", http.HandlerFunc(apiController.SetTheme))
	routers.Post("/reset", http.HandlerFunc(apiController.ResetAll))
	routers.Post("/save", http.HandlerFunc(apiController.Save))
	routers.Get("/export", http.HandlerFunc(apiController.Export))
	routers.Post("/import", http.HandlerFunc(apiController.Import))
	routers.Get("/storage", http.HandlerFunc(apiController.StorageInfo))

	routers.Get("/machines/{role}", http.HandlerFunc(apiController.GetMachine))
	routers.Put("/machines/{role}/name", http.HandlerFunc(apiController.SetName))
	routers.Post("/machines/{role}/buttons", http.HandlerFunc(apiController.AddButton))
	routers.Patch("/machines/{role}/buttons/{id}", http.HandlerFunc(apiController.UpdateButton))
	routers.Delete("/machines/{role}/buttons/{id}", http.HandlerFunc(apiController.DeleteButton))
	routers.Post("/machines/{role}/buttons/{id}/move", http.HandlerFunc(apiController.MoveButton))
	routers.Delete("/machines/{role}/buttons", http.HandlerFunc(apiController.ClearButtons))
	routers.Post("/machines/{role}/example", http.HandlerFunc(apiController.LoadExample))
	routers.Post("/machines/{role}/reset", http.HandlerFunc(apiController.ResetMachine))

	routers.Get("/share", http.HandlerFunc(shareController.GetShare))
	routers.Get("/share/qr", http.HandlerFunc(shareController.GetShareQR))
	routers.Get("/shared", http.HandlerFunc(shareController.PreviewShared))
	routers.Post("/shared", http.HandlerFunc(shareController.ApplyShared))
	return routers
}

// NewHandler mounts the routes on a ServeMux behind the metrics middleware.
func NewHandler(router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) http.Handler {
	mux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		mux.Handle(route.Pattern(), route.Handler)
	}
	return providers.MetricsMiddleware(metrics, logger, mux)
}
