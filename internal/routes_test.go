package internal

import (
	"fvm/internal/controllers"
	"fvm/internal/persistence"
	"fvm/internal/services"
	"fvm/internal/share"
	"fvm/internal/structures"
	"fvm/internal/testutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routeTestConfig() *structures.Config {
	return &structures.Config{
		AppName: "FamilyVendingMachine",
		WebServer: structures.Server{
			Host: "127.0.0.1",
			Port: 8090,
		},
		Storage: structures.StorageConfig{
			Driver:        "memory",
			Key:           "familyVendingMachine",
			Version:       "2.0",
			QuotaBytes:    5 * 1024 * 1024,
			AutoSaveDelay: 10 * time.Millisecond,
		},
		Machine: structures.MachineConfig{
			MaxButtons:    12,
			MaxNameLength: 20,
			MaxTextLength: 15,
			DefaultEmoji:  "😊",
		},
		Share: structures.ShareConfig{
			BaseURL: "https://family.example/",
		},
		Metrics: structures.MetricsConfig{Enabled: true},
	}
}

type routeEnv struct {
	conf    *structures.Config
	svc     *services.FamilyService
	api     *controllers.ApiController
	share   *controllers.ShareController
	metrics *testutil.MockMetrics
	logger  *testutil.MockLogger
}

func newRouteEnv(t *testing.T) *routeEnv {
	t.Helper()
	conf := routeTestConfig()
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	store := persistence.NewVersionedStore(conf, testutil.NewMockKV(), metrics, logger)
	codec := share.NewCodec(conf, testutil.NewMockCache(), metrics, logger)
	svc := services.NewFamilyService(conf, store, codec, &testutil.MockQR{}, metrics, logger)
	t.Cleanup(svc.Close)
	return &routeEnv{
		conf:    conf,
		svc:     svc,
		api:     controllers.NewApiController(logger, svc),
		share:   controllers.NewShareController(logger, svc),
		metrics: metrics,
		logger:  logger,
	}
}

func TestInitRoutes_PatternsAreUnique(t *testing.T) {
	env := newRouteEnv(t)
	routes := InitRoutes(env.api, env.share).GetRoutes()

	require.Len(t, routes, 20)
	seen := make(map[string]bool, len(routes))
	for _, r := range routes {
		p := r.Pattern()
		assert.False(t, seen[p], "duplicate pattern %s", p)
		seen[p] = true
		assert.NotNil(t, r.Handler)
	}

	assert.True(t, seen["GET /state"])
	assert.True(t, seen["POST /machines/{role}/buttons"])
	assert.True(t, seen["PATCH /machines/{role}/buttons/{id}"])
	assert.True(t, seen["GET /share/qr"])
	assert.True(t, seen["POST /shared"])
}

func TestNewHandler_MethodEnforcement(t *testing.T) {
	env := newRouteEnv(t)
	handler := NewHandler(InitRoutes(env.api, env.share), env.metrics, env.logger)

	req := httptest.NewRequest(http.MethodPost, "/state", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/machines/mom/buttons", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestNewHandler_LabelsByPattern(t *testing.T) {
	env := newRouteEnv(t)
	handler := NewHandler(InitRoutes(env.api, env.share), env.metrics, env.logger)

	for _, role := range []string{"mom", "dad"} {
		req := httptest.NewRequest(http.MethodPost, "/machines/"+role+"/buttons", strings.NewReader(`{"emoji":"⭐"}`))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	assert.Equal(t, 2, env.metrics.Get(env.metrics.Requests, "POST /machines/{role}/buttons"))
}

type stubScheduler struct {
	inits, stops, restores, persists int
}

func (s *stubScheduler) Init()          { s.inits++ }
func (s *stubScheduler) Stop()          { s.stops++ }
func (s *stubScheduler) Restore() error { s.restores++; return nil }
func (s *stubScheduler) Persist() error { s.persists++; return nil }

func TestNewApp_Mux(t *testing.T) {
	env := newRouteEnv(t)
	app := NewApp(controllers.NewHealthController(env.svc), &stubScheduler{}, env.conf, env.logger, InitRoutes(env.api, env.share), env.metrics)

	assert.Equal(t, "127.0.0.1:8090", app.WebServer.Addr)

	for _, target := range []string{"/health", "/metrics", "/state"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rr := httptest.NewRecorder()
		app.WebServer.Handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, target)
	}
}

func TestNewApp_MetricsDisabled(t *testing.T) {
	env := newRouteEnv(t)
	env.conf.Metrics.Enabled = false
	app := NewApp(controllers.NewHealthController(env.svc), &stubScheduler{}, env.conf, env.logger, InitRoutes(env.api, env.share), env.metrics)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	app.WebServer.Handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
