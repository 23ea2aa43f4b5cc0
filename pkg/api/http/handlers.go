package http

import (
	"errors"
	"net/http"

	"github.com/aescanero/transrelay/internal/application/relay"
	"github.com/gin-gonic/gin"
)

// Client-facing error messages
const (
	msgTextRequired      = "Text is required"
	msgTranslationFailed = "Translation failed"
)

// ErrorResponse is the client input error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// FailureResponse is the body of a failed translation
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HealthResponse is the liveness body
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth handles health check requests. It never calls the upstream.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "OK"})
}

// handleTranslate relays one translation
func (s *Server) handleTranslate(c *gin.Context) {
	var req relay.TranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, FailureResponse{
			Success: false,
			Error:   "invalid request body: " + err.Error(),
		})
		return
	}

	result, err := s.relay.Translate(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, relay.ErrTextRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgTextRequired})
	case errors.Is(err, relay.ErrTranslationFailed):
		c.JSON(http.StatusInternalServerError, FailureResponse{
			Success: false,
			Error:   msgTranslationFailed,
		})
	default:
		// already logged by the relay
		c.JSON(http.StatusInternalServerError, FailureResponse{
			Success: false,
			Error:   err.Error(),
		})
	}
}
