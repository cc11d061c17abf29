package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/mindcare/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// statusFor maps service errors to HTTP statuses and client-facing messages.
// Anything unrecognised is a 500 with a generic message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "account already exists"
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "token expired"
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, "refresh token expired"
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrorRateLimited):
		return http.StatusTooManyRequests, "too many requests"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func abortWithError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

// fail responds to a service error, logging the ones that reach 500.
// Malformed stored credentials are flagged as data-integrity failures.
func (h *handler) fail(c *gin.Context, err error) {
	if status, _ := statusFor(err); status == http.StatusInternalServerError {
		h.Logger.Error(c.Request.Context(), "request failed",
			"request_id", c.GetString(requestIDKey),
			"data_integrity", errors.Is(err, common.ErrMalformedCredential),
			"error", err)
	}
	abortWithError(c, err)
}

// badRequest responds to a binding failure. Validation failures list the
// offending fields.
func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonName(fe.Field())] = describe(fe)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "eqfield":
		return "does not match " + jsonName(fe.Param())
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "datetime":
		return "must be a YYYY-MM-DD date"
	default:
		return "is invalid"
	}
}

// jsonName turns a Go field name such as ConfirmPassword into confirm_password.
func jsonName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
