package admin

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobs-backend/internal/profiles"
	"jobs-backend/internal/shared/server/respond"
	"jobs-backend/internal/shared/telemetry"
)

// Notifier delivers a text message to a bot user.
type Notifier interface {
	Send(ctx context.Context, userID int64, text string) error
}

type Handler struct {
	Panel    *Panel
	Notifier Notifier
}

func NewHandler(panel *Panel, notifier Notifier) *Handler {
	return &Handler{Panel: panel, Notifier: notifier}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.stats)
	rg.GET("/dashboard", h.dashboard)
	rg.GET("/users", h.listUsers)
	rg.GET("/users/:id", h.getUser)
	rg.GET("/users/:id/resume", h.downloadResume)
	rg.POST("/users/:id/messages", h.sendMessage)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Panel.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load stats", nil)
		return
	}
	respond.OK(c, stats)
}

func (h *Handler) dashboard(c *gin.Context) {
	dash, err := h.Panel.Dashboard(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load dashboard", nil)
		return
	}
	respond.OK(c, dash)
}

func (h *Handler) listUsers(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	users, err := h.Panel.Users(c.Request.Context(), search)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list users", nil)
		return
	}
	respond.OK(c, gin.H{"users": users, "search": search})
}

func (h *Handler) getUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	detail, err := h.Panel.User(c.Request.Context(), userID)
	if err != nil {
		writeUserError(c, err, "failed to load user")
		return
	}
	respond.OK(c, detail)
}

func (h *Handler) downloadResume(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	rc, name, err := h.Panel.Resume(c.Request.Context(), userID)
	if err != nil {
		writeUserError(c, err, "failed to open resume")
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Warn("admin.resume_stream_failed", map[string]any{"user_id": userID, "error": err.Error()})
	}
}

type messageRequest struct {
	Message string `json:"message"`
}

func (h *Handler) sendMessage(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is required", nil)
		return
	}
	if _, err := h.Panel.Profiles.Get(c.Request.Context(), userID); err != nil {
		writeUserError(c, err, "failed to load user")
		return
	}
	if h.Notifier == nil {
		respond.Error(c, http.StatusServiceUnavailable, "notifications_disabled", "bot token is not configured", nil)
		return
	}
	if err := h.Notifier.Send(c.Request.Context(), userID, strings.TrimSpace(req.Message)); err != nil {
		respond.Error(c, http.StatusBadGateway, "notification_failed", "failed to send message", nil)
		return
	}
	respond.OK(c, gin.H{"sent": true, "userId": userID})
}

func writeUserError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, profiles.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
	case errors.Is(err, ErrNoResume):
		respond.Error(c, http.StatusNotFound, "no_resume", "user has no uploaded resume", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid user id", nil)
		return 0, false
	}
	c.Set("userId", id)
	return id, true
}
