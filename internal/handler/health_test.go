package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/testutil"
)

func TestHealthAndReady(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	r := gin.New()
	NewHealthHandler(db, nil, time.Now().Add(-time.Minute), "test").RegisterRoutes(r)

	for _, path := range []string{"/health", "/ready"} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		expectStatus(t, w, http.StatusOK)

		body := decode[map[string]any](t, w)
		if body["version"] != "test" {
			t.Errorf("%s: expected version test, got %v", path, body["version"])
		}
		if _, ok := body["redis"]; ok {
			t.Errorf("%s: redis should be absent when not configured", path)
		}
	}
}

func TestReady_DatabaseClosed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	_ = sqlDB.Close()

	r := gin.New()
	NewHealthHandler(db, nil, time.Now(), "test").RegisterRoutes(r)

	req, _ := http.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	expectStatus(t, w, http.StatusServiceUnavailable)
}
