package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// envelope is the standard JSON body for successful responses.
type envelope struct {
	Data interface{} `json:"data"`
}

// paginatedEnvelope is the standard JSON body for paginated responses.
type paginatedEnvelope struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// errorEnvelope is the standard JSON body for error responses.
type errorEnvelope struct {
	Error string `json:"error"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Data: data})
}

// NoContent writes a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 response with pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, paginatedEnvelope{Data: items, Total: total, Page: page, Limit: limit})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorEnvelope{Error: message})
}

// Error maps a domain error to its HTTP status and writes the response.
// Unknown errors become an opaque 500.
func Error(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, errorEnvelope{Error: err.Error()})
	case domain.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, errorEnvelope{Error: err.Error()})
	case domain.IsForbidden(err):
		c.JSON(http.StatusForbidden, errorEnvelope{Error: err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, errorEnvelope{Error: err.Error()})
	case domain.IsConflict(err), domain.IsInvalidState(err):
		c.JSON(http.StatusConflict, errorEnvelope{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorEnvelope{Error: "internal server error"})
	}
}
