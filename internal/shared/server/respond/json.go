package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response. Admin payloads carry applicant contact details, so
// responses are never cached by intermediaries.
func JSON(c *gin.Context, status int, payload any) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, payload)
}

func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Created answers a successful POST that made a new resource.
func Created(c *gin.Context, payload any) {
	JSON(c, http.StatusCreated, payload)
}
