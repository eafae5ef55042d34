package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"bible-reader/internal/database/bible"
)

// ErrorResponse is the error body of every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 without exposing it.
func respondInternalError(c *gin.Context, err error, context string) {
	slog.Error("Internal error", "context", context, "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondStoreError maps repository errors onto status codes.
func respondStoreError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, bible.ErrVersionNotFound),
		errors.Is(err, bible.ErrBookNotFound),
		errors.Is(err, bible.ErrChapterNotFound):
		respondNotFound(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}
