package controllers

import (
	"fvm/internal/persistence"
	"fvm/internal/services"
	"fvm/internal/share"
	"fvm/internal/structures"
	"fvm/internal/testutil"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func testConfig() *structures.Config {
	return &structures.Config{
		AppName: "FamilyVendingMachine",
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
	}
}

type testEnv struct {
	mux    *http.ServeMux
	svc    *services.FamilyService
	kv     *testutil.MockKV
	qr     *testutil.MockQR
	logger *testutil.MockLogger
}

// newTestEnv wires controllers to a real service backed by in-memory mocks.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conf := testConfig()
	kv := testutil.NewMockKV()
	metrics := testutil.NewMockMetrics()
	logger := &testutil.MockLogger{}
	store := persistence.NewVersionedStore(conf, kv, metrics, logger)
	codec := share.NewCodec(conf, testutil.NewMockCache(), metrics, logger)
	qr := &testutil.MockQR{Image: []byte("\x89PNG")}
	svc := services.NewFamilyService(conf, store, codec, qr, metrics, logger)
	t.Cleanup(svc.Close)

	ac := NewApiController(logger, svc)
	sc := NewShareController(logger, svc)
	hc := NewHealthController(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", hc.Health)
	mux.HandleFunc("GET /state", ac.GetState)
	mux.HandleFunc("PUT /theme", ac.SetTheme)
	mux.HandleFunc("POST /reset", ac.ResetAll)
	mux.HandleFunc("POST /save", ac.Save)
	mux.HandleFunc("GET /export", ac.Export)
	mux.HandleFunc("POST /import", ac.Import)
	mux.HandleFunc("GET /storage", ac.StorageInfo)
	mux.HandleFunc("GET /machines/{role}", ac.GetMachine)
	mux.HandleFunc("PUT /machines/{role}/name", ac.SetName)
	mux.HandleFunc("POST /machines/{role}/buttons", ac.AddButton)
	mux.HandleFunc("PATCH /machines/{role}/buttons/{id}", ac.UpdateButton)
	mux.HandleFunc("DELETE /machines/{role}/buttons/{id}", ac.DeleteButton)
	mux.HandleFunc("POST /machines/{role}/buttons/{id}/move", ac.MoveButton)
	mux.HandleFunc("DELETE /machines/{role}/buttons", ac.ClearButtons)
	mux.HandleFunc("POST /machines/{role}/example", ac.LoadExample)
	mux.HandleFunc("POST /machines/{role}/reset", ac.ResetMachine)
	mux.HandleFunc("GET /share", sc.GetShare)
	mux.HandleFunc("GET /share/qr", sc.GetShareQR)
	mux.HandleFunc("GET /shared", sc.PreviewShared)
	mux.HandleFunc("POST /shared", sc.ApplyShared)

	return &testEnv{mux: mux, svc: svc, kv: kv, qr: qr, logger: logger}
}

func (e *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}
