package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studiodesk/pkg/client"
	"studiodesk/pkg/config"
	"studiodesk/pkg/logger"
	"studiodesk/pkg/middleware"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/ping/:id", func(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(ps.ByName("id")))
	})
}

func testConfig() *config.Config {
	return &config.Config{
		Port:              "8080",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1 << 20,
		ReadTimeout:       time.Second,
		WriteTimeout:      time.Second,
		IdleTimeout:       time.Second,
		ShutdownTimeout:   time.Second,
		Log:               logger.Discard(),
		Client:            client.NewClient(),
	}
}

func TestApplication_Routing(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(pingHandler{})
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})
	h := a.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "memory")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Application routes require an actor.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping/abc", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping/abc", nil)
	req.Header.Set(middleware.ActorIDHeader, "m1")
	req.Header.Set(middleware.ActorRoleHeader, "member")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", rec.Body.String())
}

func TestRouteLabel(t *testing.T) {
	router := httprouter.New()
	pingHandler{}.RegisterRoutes(router)
	label := routeLabel(router)

	assert.Equal(t, "/api/v1/ping/:id", label(httptest.NewRequest(http.MethodGet, "/api/v1/ping/r-123", nil)))
	assert.Equal(t, "unmatched", label(httptest.NewRequest(http.MethodGet, "/nowhere", nil)))
}
