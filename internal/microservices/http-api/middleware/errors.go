package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/microservices/http-api/apperr"
	"reviewhub/internal/microservices/http-api/dto"
)

const codeInternal = "internal_error"

// StatusFor maps an error category to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// Abort renders err as {code, detail} and stops the handler chain.
// Uncategorised errors are recorded on the context for the request logger
// and rendered without their message.
func Abort(c *gin.Context, err error) {
	status := StatusFor(err)

	body := dto.ErrorResponse{Code: codeInternal, Detail: "internal server error"}
	if e, ok := apperr.As(err); ok && status != http.StatusInternalServerError {
		body = dto.ErrorResponse{Code: e.Code(), Detail: e.Detail}
	} else {
		_ = c.Error(err)
	}

	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, body)
}
