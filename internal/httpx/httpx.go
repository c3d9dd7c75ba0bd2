// Package httpx holds the JSON response helpers shared by the gin handlers.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
)

// OK writes v as a 200 JSON body.
func OK(c *gin.Context, v any) {
	c.JSON(http.StatusOK, v)
}

// Created writes v as a 201 JSON body.
func Created(c *gin.Context, v any) {
	c.JSON(http.StatusCreated, v)
}

// Fail writes {"error": msg} with the given status and aborts the chain.
func Fail(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

// Status maps a domain error to its HTTP status code.
func Status(err error) int {
	var (
		ve *apperr.ValidationError
		fe *apperr.ForbiddenError
		nf *apperr.NotFoundError
		ce *apperr.ConflictError
	)
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ce):
		return http.StatusBadRequest
	case errors.As(err, &fe):
		return http.StatusForbidden
	case errors.As(err, &nf):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Error maps err to a status and writes it. Internal errors are logged and
// replaced by a generic message.
func Error(c *gin.Context, err error) {
	code := Status(err)
	if code == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		Fail(c, code, "internal server error")
		return
	}
	Fail(c, code, err.Error())
}
