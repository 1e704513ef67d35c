package jobs

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobs-backend/internal/shared/server/respond"
)

// ApplicationCounts supplies per-job application totals for listings.
type ApplicationCounts interface {
	CountByJob(ctx context.Context) (map[int64]int, error)
}

// Handler exposes catalog management to the admin panel.
type Handler struct {
	Svc    *Service
	Counts ApplicationCounts
}

func NewHandler(svc *Service, counts ApplicationCounts) *Handler {
	return &Handler{Svc: svc, Counts: counts}
}

// RegisterRoutes attaches job routes to an authenticated admin group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.list)
	rg.POST("/jobs", h.create)
	rg.GET("/jobs/:id", h.get)
	rg.PUT("/jobs/:id", h.update)
	rg.DELETE("/jobs/:id", h.delete)
}

type jobResponse struct {
	Job
	ApplicationCount int `json:"applicationCount"`
}

func (h *Handler) list(c *gin.Context) {
	filter := Filter{
		Status: ParseStatusFilter(c.Query("status")),
		Search: c.Query("search"),
	}
	list, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list jobs", nil)
		return
	}
	counts := map[int64]int{}
	if h.Counts != nil {
		counts, err = h.Counts.CountByJob(c.Request.Context())
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to count applications", nil)
			return
		}
	}
	out := make([]jobResponse, 0, len(list))
	for _, job := range list {
		out = append(out, jobResponse{Job: job, ApplicationCount: counts[job.ID]})
	}
	respond.OK(c, gin.H{"jobs": out, "status": filter.Status, "search": filter.Search})
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	job, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "failed to create job")
		return
	}
	respond.Created(c, job)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	c.Set("jobId", id)
	job, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to fetch job")
		return
	}
	respond.OK(c, job)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	c.Set("jobId", id)
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	job, err := h.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		h.writeError(c, err, "failed to update job")
		return
	}
	respond.OK(c, job)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	c.Set("jobId", id)
	outcome, err := h.Svc.DeleteOrDeactivate(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to delete job")
		return
	}
	message := "Job deleted successfully."
	if outcome == OutcomeDeactivated {
		message = "Job has existing applications and was deactivated instead of deleted. You can reactivate it by editing it."
	}
	respond.OK(c, gin.H{"id": id, "outcome": outcome, "message": message})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidJob):
		respond.Error(c, http.StatusBadRequest, "validation_error", "job title and description are required", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid job id", nil)
		return 0, false
	}
	return id, true
}
