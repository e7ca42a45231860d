package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"studiobook/handlers"
	"studiobook/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func stub(name string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, name) }
}

func testBundle(health *utils.HealthMonitor) *handlers.HandlerBundle {
	return &handlers.HandlerBundle{
		Health:                  health,
		GetFinalSlotsHandler:    stub("final"),
		GetOriginalSlotsHandler: stub("original"),
		GetAvailableSlots:       stub("available"),
		AddTemplateHandler:      stub("add-template"),
		UpdateTemplateHandler:   stub("update-template"),
		DeleteTemplateHandler:   stub("delete-template"),
		AddOverrideHandler:      stub("add-override"),
		UpdateOverrideHandler:   stub("update-override"),
		DeleteOverrideHandler:   stub("delete-override"),
		AddBlockedHandler:       stub("add-blocked"),
		UpdateBlockedHandler:    stub("update-blocked"),
		DeleteBlockedHandler:    stub("delete-blocked"),
	}
}

func TestRegisterRoutes(t *testing.T) {
	r := gin.New()
	RegisterRoutes(r, testBundle(nil), 1000)

	tests := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/api/artists/a1/slots/final?weekStart=2024-06-03", "final"},
		{http.MethodGet, "/api/artists/a1/slots/original?weekStart=2024-06-03", "original"},
		{http.MethodGet, "/api/artists/a1/availability", "available"},
		{http.MethodPost, "/api/artists/a1/templates", "add-template"},
		{http.MethodPut, "/api/templates/t1", "update-template"},
		{http.MethodDelete, "/api/templates/t1", "delete-template"},
		{http.MethodPost, "/api/artists/a1/overrides", "add-override"},
		{http.MethodPut, "/api/overrides/o1", "update-override"},
		{http.MethodDelete, "/api/overrides/o1", "delete-override"},
		{http.MethodPost, "/api/artists/a1/blocked", "add-blocked"},
		{http.MethodPut, "/api/blocked/b1", "update-blocked"},
		{http.MethodDelete, "/api/blocked/b1", "delete-blocked"},
	}
	for _, tc := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, tc.path)
		assert.Equal(t, tc.want, w.Body.String(), tc.path)
	}
}

func TestHealthRoute(t *testing.T) {
	healthy := utils.NewHealthMonitor(0, nil, utils.HealthCheck{Name: "redis", Check: func(context.Context) error { return nil }})
	healthy.RunChecks(context.Background())

	r := gin.New()
	RegisterHealthRoute(r, testBundle(healthy))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":true`)

	degraded := utils.NewHealthMonitor(0, nil, utils.HealthCheck{Name: "mongo", Check: func(context.Context) error { return errors.New("down") }})
	degraded.RunChecks(context.Background())

	r = gin.New()
	RegisterHealthRoute(r, testBundle(degraded))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded"`)
}
