package middleware

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "landedcost/internal/errors"
	"landedcost/internal/infrastructure"
	api "landedcost/pkg/contracts/api/v1"
)

// DefaultMaxBodySize bounds JSON request bodies
const DefaultMaxBodySize = 10 << 20

// RequestValidator decodes JSON bodies and validates them with struct tags
type RequestValidator struct {
	validator   *validator.Validate
	logger      *slog.Logger
	maxBodySize int64
}

// NewRequestValidator creates a validator that reports JSON field names
func NewRequestValidator(logger *slog.Logger) *RequestValidator {
	v := validator.New()

	_ = v.RegisterValidation("filename", isValidFilename)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RequestValidator{
		validator:   v,
		logger:      infrastructure.WithComponent(logger, "request_validator"),
		maxBodySize: DefaultMaxBodySize,
	}
}

// DecodeJSON reads the body of r into dst and validates it. The returned
// error is an *apierrors.APIError or validator.ValidationErrors.
func (v *RequestValidator) DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return apierrors.MissingData()
	}

	body := http.MaxBytesReader(w, r.Body, v.maxBodySize)
	if err := render.DecodeJSON(body, dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apierrors.MissingData()
		case errors.As(err, &maxErr):
			return apierrors.NewWithDetails(http.StatusRequestEntityTooLarge, api.StageJSONValidation,
				"request body exceeds maximum allowed size", map[string]any{"max_size": maxErr.Limit})
		default:
			v.logger.DebugContext(r.Context(), "rejected request body",
				slog.String("error", err.Error()),
				slog.String("path", r.URL.Path),
			)
			return apierrors.InvalidJSON(err)
		}
	}

	return v.ValidateStruct(dst)
}

// ValidateStruct runs the struct tag rules on s
func (v *RequestValidator) ValidateStruct(s any) error {
	if err := v.validator.Struct(s); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("validate request: %w", err)
		}
		return err
	}
	return nil
}

// ContentTypeValidator ensures requests have proper content type
func ContentTypeValidator(errorHandler *apierrors.ErrorHandler, contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			for _, allowed := range contentTypes {
				if strings.HasPrefix(contentType, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusUnsupportedMediaType,
				api.StageJSONValidation,
				"unsupported content type",
				map[string]any{
					"content_type": contentType,
					"allowed":      contentTypes,
				},
			))
		})
	}
}

// isValidFilename rejects empty names and anything with a path component
func isValidFilename(fl validator.FieldLevel) bool {
	filename := fl.Field().String()
	if filename == "" || len(filename) > 255 {
		return false
	}
	return !strings.Contains(filename, "..") && !strings.ContainsAny(filename, `/\`)
}
