package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
)

type staticCounts map[int64]int

func (s staticCounts) CountByJob(ctx context.Context) (map[int64]int, error) {
	return s, nil
}

func newTestRouter(t *testing.T, svc *Service, counts ApplicationCounts) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, counts).RegisterRoutes(r.Group("/admin"))
	return r
}

func TestHandlerDeleteReportsOutcome(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	svc := NewService(repo)
	kept, _ := svc.Create(ctx, Input{Title: "Kept", Description: "has applicants"})
	gone, _ := svc.Create(ctx, Input{Title: "Gone", Description: "nobody applied"})
	repo.SetCounter(fixedCounter{kept.ID: 1})
	r := newTestRouter(t, svc, staticCounts{kept.ID: 1})

	for _, tc := range []struct {
		id   int64
		want Outcome
	}{{kept.ID, OutcomeDeactivated}, {gone.ID, OutcomeDeleted}} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/admin/jobs/"+strconv.FormatInt(tc.id, 10), nil)
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Outcome Outcome `json:"outcome"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Outcome != tc.want {
			t.Fatalf("job %d: expected %s, got %s", tc.id, tc.want, body.Outcome)
		}
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/jobs?status=inactive", nil))
	var listed struct {
		Jobs []jobResponse `json:"jobs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Jobs) != 1 || listed.Jobs[0].ID != kept.ID || listed.Jobs[0].ApplicationCount != 1 {
		t.Fatalf("unexpected inactive list: %+v", listed.Jobs)
	}
}

func TestHandlerCreateValidation(t *testing.T) {
	r := newTestRouter(t, NewService(NewMemoryRepo()), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/jobs", bytes.NewBufferString(`{"title":"Dev"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/admin/jobs", bytes.NewBufferString(`{"title":"Dev","description":"Build"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandlerGetNotFound(t *testing.T) {
	r := newTestRouter(t, NewService(NewMemoryRepo()), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/jobs/77", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/jobs/abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
