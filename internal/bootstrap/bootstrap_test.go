package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "server:\n  mode: production\nsession:\n  secret: test-secret\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(api.Close)
	cfg.API.BaseURL = api.URL
	return cfg
}

func TestBuildDependenciesWithMemoryStores(t *testing.T) {
	cfg := testConfig(t)
	pool, err := SetupDatabase(cfg, zerolog.Nop())
	if err != nil || pool != nil {
		t.Fatalf("memory store should not open a database: %v", err)
	}

	deps, err := BuildDependencies(cfg, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("BuildDependencies: %v", err)
	}
	router, err := SetupRouter(cfg, deps, zerolog.Nop())
	if err != nil {
		t.Fatalf("SetupRouter: %v", err)
	}
	if gin.Mode() != gin.ReleaseMode {
		t.Fatalf("production mode not applied")
	}

	cases := map[string]int{
		"/health":    http.StatusOK,
		"/":          http.StatusOK,
		"/dashboard": http.StatusFound,
		"/nowhere":   http.StatusNotFound,
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Fatalf("GET %s = %d, want %d", path, rec.Code, want)
		}
	}
}

func TestCleanerPurgesExpiredState(t *testing.T) {
	cfg := testConfig(t)
	deps, err := BuildDependencies(cfg, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("BuildDependencies: %v", err)
	}

	token, err := deps.Sessions.Issue(models.SessionUser{ID: 1, Email: "a@x.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := deps.Sessions.Revoke(context.Background(), token.Value); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	deps.Rows.Remember("sid", []models.Candidate{{ID: 1}})

	NewCleaner(deps).Run()

	// the revocation outlives the token, so the session stays revoked
	if _, err := deps.Sessions.Resolve(context.Background(), token.Value); err == nil {
		t.Fatalf("revoked session resolved after cleanup")
	}
	if deps.Rows.Len() != 1 {
		t.Fatalf("live hand-off row purged")
	}
}

func TestStartCleanupStops(t *testing.T) {
	deps, err := BuildDependencies(testConfig(t), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("BuildDependencies: %v", err)
	}
	stop, err := StartCleanup(deps, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("StartCleanup: %v", err)
	}
	stop()
}
