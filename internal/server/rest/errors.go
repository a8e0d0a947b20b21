package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrVersionConflict), errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrUpload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail aborts the request with the status and message for err.
// Errors of unknown kind are logged and reported as internal errors.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()

	known := errors.Is(err, common.ErrStore) || status != http.StatusInternalServerError
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	}
	if !known {
		msg = common.ErrInternal.Error()
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// bindError turns a gin binding failure into a validation error with a
// readable message.
func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fieldMessage(fe))
		}
		return &validationError{msg: strings.Join(parts, "; ")}
	}
	return &validationError{msg: "invalid request body: " + err.Error()}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "isodate":
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}

type validationError struct{ msg string }

func (e *validationError) Error() string { return common.ErrValidation.Error() + ": " + e.msg }
func (e *validationError) Unwrap() error { return common.ErrValidation }
