package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"jobs-backend/internal/intake"
	"jobs-backend/internal/shared/config"
	"jobs-backend/internal/shared/storage/db"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:           "dev",
		LocalStoreDir: t.TempDir(),
		SessionStore:  "memory",
		AdminUsername: "root",
		AdminPassword: "s3cret",
		JobsSeedFile:  "../../configs/jobs.seed.yaml",
	}
}

func TestBuildInMemoryServesAdminAPI(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t), Options{DB: db.DefaultServerOptions()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	if app.DB != nil || app.Bot != nil || app.Notifier != nil {
		t.Fatalf("expected memory mode without bot, got db=%v bot=%v", app.DB, app.Bot)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"username":"root","password":"s3cret"}`))
	req.Header.Set("Content-Type", "application/json")
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil || session.Token == "" {
		t.Fatalf("login: missing token (%v)", err)
	}

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+session.Token)
		app.Router.ServeHTTP(rec, req)
		return rec
	}

	rec = get("/api/v1/admin/stats")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total_jobs":4`) {
		t.Fatalf("stats: %d %s", rec.Code, rec.Body.String())
	}

	rec = get("/api/v1/admin/jobs?status=active")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Software Developer") {
		t.Fatalf("jobs: %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	for _, path := range []string{"/api/v1/health", "/metrics"} {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "production"
	if _, err := Build(context.Background(), cfg, Options{}); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestNotifyWithoutBotIsUnavailable(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	ctx := context.Background()
	jobsList, err := app.JobsService.ListActive(ctx)
	if err != nil || len(jobsList) == 0 {
		t.Fatalf("expected seeded jobs: %v", err)
	}
	reply, err := app.Intake.Start(ctx, 7, "jdoe")
	if err != nil || reply.Text == "" {
		t.Fatalf("Start: %v", err)
	}
	for _, answer := range []string{"Jane Doe", "jane@x.com", "555", "3y", "Go", "bio"} {
		if _, err := app.Intake.OnUserMessage(ctx, 7, intake.Input{Text: answer}); err != nil {
			t.Fatalf("OnUserMessage(%q): %v", answer, err)
		}
	}
	application, err := app.ApplicationsService.Apply(ctx, 7, jobsList[0].ID)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	token, err := app.Signer.Sign(1, "root")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/applications/"+strconv.FormatInt(application.ID, 10)+"/notify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without bot token, got %d: %s", rec.Code, rec.Body.String())
	}
}
