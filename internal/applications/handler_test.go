package applications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type recordingNotifier struct {
	err  error
	sent []string
}

func (n *recordingNotifier) Send(ctx context.Context, userID int64, text string) error {
	n.sent = append(n.sent, text)
	return n.err
}

func setupHandler(t *testing.T, notifier Notifier) (*gin.Engine, *fixture, Application) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	f.addProfile(t, 1, "Jane Doe", "jane@x.com")
	app, err := f.svc.Apply(context.Background(), 1, f.job.ID)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	r := gin.New()
	NewHandler(f.svc, notifier).RegisterRoutes(r.Group("/admin"))
	return r, f, app
}

func TestHandlerSetStatusRejectsUnknownStatus(t *testing.T) {
	r, f, app := setupHandler(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/applications/"+strconv.FormatInt(app.ID, 10)+"/status",
		bytes.NewBufferString(`{"status":"bogus"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_status") {
		t.Fatalf("expected invalid_status code, got %s", rec.Body.String())
	}
	stored, _ := f.ledger.GetByID(context.Background(), app.ID)
	if stored.Status != StatusPending {
		t.Fatalf("status changed to %s", stored.Status)
	}
}

func TestHandlerSetStatusUpdates(t *testing.T) {
	r, f, app := setupHandler(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/applications/"+strconv.FormatInt(app.ID, 10)+"/status",
		bytes.NewBufferString(`{"status":"interviewed"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stored, _ := f.ledger.GetByID(context.Background(), app.ID)
	if stored.Status != StatusInterviewed {
		t.Fatalf("expected interviewed, got %s", stored.Status)
	}
}

func TestHandlerNotifyFailureLeavesDataUntouched(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("telegram down")}
	r, f, app := setupHandler(t, notifier)
	if _, err := f.svc.SetStatus(context.Background(), app.ID, "accepted"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/applications/"+strconv.FormatInt(app.ID, 10)+"/notify", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if len(notifier.sent) != 1 || !strings.Contains(notifier.sent[0], "*Accepted*") || !strings.Contains(notifier.sent[0], app.PublicID) {
		t.Fatalf("unexpected notification text: %v", notifier.sent)
	}
	stored, _ := f.ledger.GetByID(context.Background(), app.ID)
	if stored.Status != StatusAccepted {
		t.Fatalf("status changed to %s", stored.Status)
	}
}

func TestHandlerNotifyCustomMessage(t *testing.T) {
	notifier := &recordingNotifier{}
	r, _, app := setupHandler(t, notifier)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/applications/"+strconv.FormatInt(app.ID, 10)+"/notify",
		bytes.NewBufferString(`{"message":"See you Monday"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != "See you Monday" {
		t.Fatalf("unexpected notification: %v", notifier.sent)
	}
}

func TestHandlerListFiltersByStatus(t *testing.T) {
	r, _, _ := setupHandler(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/applications?status=pending&search=jane", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Applications []Detail `json:"applications"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Applications) != 1 || body.Applications[0].Applicant == nil {
		t.Fatalf("unexpected list: %+v", body.Applications)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/applications?status=hired", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
