package applications

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobs-backend/internal/shared/server/respond"
)

// Notifier delivers a text message to a bot user.
type Notifier interface {
	Send(ctx context.Context, userID int64, text string) error
}

type Handler struct {
	Svc      *Service
	Notifier Notifier
}

func NewHandler(svc *Service, notifier Notifier) *Handler {
	return &Handler{Svc: svc, Notifier: notifier}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/applications", h.list)
	rg.GET("/applications/:id", h.get)
	rg.PUT("/applications/:id/status", h.setStatus)
	rg.POST("/applications/:id/notify", h.notify)
}

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

func (h *Handler) list(c *gin.Context) {
	filter := Filter{Search: strings.TrimSpace(c.Query("search")), Limit: defaultListLimit}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" && raw != "all" {
		status, err := ParseStatus(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "invalid_status", "invalid status filter", gin.H{"allowed": Statuses})
			return
		}
		filter.Status = status
	}
	if raw := c.Query("jobId"); raw != "" {
		jobID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid job id", nil)
			return
		}
		filter.JobID = jobID
	}
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			filter.Limit = parsed
		}
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	details, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	respond.OK(c, gin.H{"applications": details})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	detail, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to fetch application")
		return
	}
	respond.OK(c, detail)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) setStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	app, err := h.Svc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, err, "failed to update application status")
		return
	}
	c.Set("statusTransition", string(app.Status))
	respond.OK(c, gin.H{
		"application": app,
		"message":     "Application status updated to " + app.Status.Title() + "!",
	})
}

type notifyRequest struct {
	Message string `json:"message"`
}

// notify sends the applicant a message about their application. Delivery failure leaves
// the application untouched.
func (h *Handler) notify(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req notifyRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	detail, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to fetch application")
		return
	}
	if h.Notifier == nil {
		respond.Error(c, http.StatusServiceUnavailable, "notifications_disabled", "bot token is not configured", nil)
		return
	}
	text := strings.TrimSpace(req.Message)
	if text == "" {
		text = StatusMessage(detail)
	}
	if err := h.Notifier.Send(c.Request.Context(), detail.UserID, text); err != nil {
		respond.Error(c, http.StatusBadGateway, "notification_failed", "failed to notify applicant", nil)
		return
	}
	respond.OK(c, gin.H{"sent": true, "userId": detail.UserID})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidStatus):
		respond.Error(c, http.StatusBadRequest, "invalid_status", "Invalid status!", gin.H{"allowed": Statuses})
	case errors.Is(err, ErrApplicationNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid application id", nil)
		return 0, false
	}
	c.Set("applicationId", id)
	return id, true
}
