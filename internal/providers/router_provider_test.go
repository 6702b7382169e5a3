package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/test", routes[0].Url)
	assert.Equal(t, http.MethodGet, routes[0].Method)
	assert.Equal(t, "GET /test", routes[0].Pattern())
}

func TestRouterProvider_MethodsAddRoutes(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/a", dummyHandler())
	rp.Post("/a", dummyHandler())
	rp.Put("/b", dummyHandler())
	rp.Patch("/b/{id}", dummyHandler())
	rp.Delete("/b/{id}", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 5)
	patterns := make([]string, len(routes))
	for i, r := range routes {
		patterns[i] = r.Pattern()
	}
	assert.Equal(t, []string{"GET /a", "POST /a", "PUT /b", "PATCH /b/{id}", "DELETE /b/{id}"}, patterns)
}

func TestRouterProvider_PatternsEnforceMethod(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler())
	rp.Post("/submit", dummyHandler())

	mux := http.NewServeMux()
	for _, r := range rp.GetRoutes() {
		mux.Handle(r.Pattern(), r.Handler)
	}

	cases := []struct {
		method, target string
		status         int
	}{
		{http.MethodGet, "/test", http.StatusOK},
		{http.MethodPost, "/test", http.StatusMethodNotAllowed},
		{http.MethodPost, "/submit", http.StatusOK},
		{http.MethodGet, "/submit", http.StatusMethodNotAllowed},
		{http.MethodGet, "/other", http.StatusNotFound},
	}
	for _, c := range cases {
		req := httptest.NewRequest(c.method, c.target, nil)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		assert.Equal(t, c.status, rr.Code, "%s %s", c.method, c.target)
	}
}
