package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rfpdesk/backend/internal/domain"
	"github.com/rfpdesk/backend/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// errorMapping ties a domain error to its transport status and the message
// shown to the caller. An empty message means the error detail is shown.
type errorMapping struct {
	target  error
	status  int
	message string
	outcome string
}

// errorTable is shared by every endpoint. Order matters: the first match wins.
var errorTable = []errorMapping{
	{domain.ErrRateLimited, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", "rate_limited"},
	{domain.ErrQuotaExhausted, http.StatusPaymentRequired, "AI credits exhausted. Please add more credits.", "quota_exhausted"},
	{domain.ErrConfiguration, http.StatusInternalServerError, "LLM API key is not configured", "configuration_error"},
	{domain.ErrInvalidRequest, http.StatusInternalServerError, "", "validation_error"},
	{domain.ErrResponseFormat, http.StatusInternalServerError, "AI response was not valid product match JSON", "format_error"},
	{domain.ErrUpstreamFailure, http.StatusInternalServerError, "AI gateway error", "upstream_error"},
}

var unknownError = errorMapping{
	status:  http.StatusInternalServerError,
	message: "Internal server error",
	outcome: "internal_error",
}

func lookupError(err error) errorMapping {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m
		}
	}
	return unknownError
}

// writeError logs the failure once and aborts with {"error": message}
func writeError(c *gin.Context, logger *zap.Logger, operation string, err error) {
	m := lookupError(err)

	message := m.message
	if message == "" {
		message = validationDetail(err)
	}

	logger.Error("request failed",
		zap.String("operation", operation),
		zap.Int("status", m.status),
		zap.String("request_id", requestID(c)),
		zap.Error(err))

	if operation != "" {
		metrics.GatewayRequests.WithLabelValues(operation, m.outcome).Inc()
	}

	c.AbortWithStatusJSON(m.status, gin.H{"error": message})
}

// validationDetail strips the sentinel prefix from a wrapped ErrInvalidRequest
func validationDetail(err error) string {
	prefix := domain.ErrInvalidRequest.Error() + ": "
	return strings.TrimPrefix(err.Error(), prefix)
}

var registerTagNames sync.Once

// useJSONFieldNames makes validator report fields by their json names
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes the body into req and reports failures as ErrInvalidRequest
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, describeBindingError(err))
	}
	return nil
}

func describeBindingError(err error) string {
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "request body is not valid JSON"
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.String())
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describeFieldError(fe))
		}
		return strings.Join(msgs, "; ")
	}

	return err.Error()
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
