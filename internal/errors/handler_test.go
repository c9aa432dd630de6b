package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landedcost/internal/allocation"
	"landedcost/internal/ingestion"
	"landedcost/internal/services"
	"landedcost/internal/shared/testutil"
	api "landedcost/pkg/contracts/api/v1"
)

func newTestHandler(t *testing.T, includeStack bool) *ErrorHandler {
	h := NewErrorHandler(testutil.NewTestLogger(t), includeStack)
	h.now = func() time.Time { return fixedNow }
	return h
}

func TestNewErrorHandler(t *testing.T) {
	tests := []struct {
		name         string
		includeStack bool
	}{
		{name: "create handler with stack traces", includeStack: true},
		{name: "create handler without stack traces", includeStack: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewErrorHandler(testutil.NewTestLogger(t), tt.includeStack)
			require.NotNil(t, h)
			assert.Equal(t, tt.includeStack, h.includeStack)
			assert.NotNil(t, h.logger)
		})
	}

	assert.NotNil(t, NewErrorHandler(nil, false).logger)
}

type sample struct {
	Products []string `validate:"required,min=1"`
}

func TestErrorHandler_HandleError(t *testing.T) {
	valErr := validator.New().Struct(sample{})
	require.Error(t, valErr)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantStage   string
		wantMessage string
		wantDetails map[string]any
	}{
		{
			name:        "api error passes through",
			err:         InvalidType("bad"),
			wantStatus:  http.StatusBadRequest,
			wantStage:   api.StageInvalidType,
			wantMessage: "bad",
		},
		{
			name:        "file validation stage",
			err:         &ingestion.StageError{Stage: ingestion.StageFileValidation, Message: "unsupported file type"},
			wantStatus:  http.StatusBadRequest,
			wantStage:   "file_validation",
			wantMessage: "unsupported file type",
		},
		{
			name: "column detection keeps details",
			err: fmt.Errorf("ingest: %w", &ingestion.StageError{
				Stage:   ingestion.StageColumnDetection,
				Message: "could not detect required columns",
				Details: map[string]any{"available_columns": []string{"foo"}},
			}),
			wantStatus:  http.StatusUnprocessableEntity,
			wantStage:   "column_detection",
			wantMessage: "could not detect required columns",
			wantDetails: map[string]any{"available_columns": []any{"foo"}},
		},
		{
			name:        "critical stage",
			err:         &ingestion.StageError{Stage: ingestion.StageCritical, Message: "boom"},
			wantStatus:  http.StatusInternalServerError,
			wantStage:   "critical_error",
			wantMessage: "boom",
		},
		{
			name:        "allocation input",
			err:         allocation.NewInputError("freightValue", "must be a finite number"),
			wantStatus:  http.StatusBadRequest,
			wantStage:   api.StageDataValidation,
			wantMessage: "freightValue: must be a finite number",
			wantDetails: map[string]any{"field": "freightValue"},
		},
		{
			name:        "service validation",
			err:         &services.ValidationError{Message: "no valid products", Details: map[string]any{"total_errors": 3}},
			wantStatus:  http.StatusBadRequest,
			wantStage:   api.StageDataValidation,
			wantMessage: "no valid products",
			wantDetails: map[string]any{"total_errors": float64(3)},
		},
		{
			name:        "unknown suggestions",
			err:         fmt.Errorf("%w: %q", services.ErrUnknownSuggestions, "colors"),
			wantStatus:  http.StatusBadRequest,
			wantStage:   api.StageInvalidType,
			wantMessage: `unknown suggestion type: "colors"`,
		},
		{
			name:       "struct validation",
			err:        valErr,
			wantStatus: http.StatusBadRequest,
			wantStage:  api.StageDataValidation,
		},
		{
			name:        "deadline exceeded",
			err:         fmt.Errorf("allocate: %w", context.DeadlineExceeded),
			wantStatus:  http.StatusGatewayTimeout,
			wantStage:   api.StageTimeout,
			wantMessage: "the request took too long to process",
		},
		{
			name:        "unclassified",
			err:         errors.New("disk on fire"),
			wantStatus:  http.StatusInternalServerError,
			wantStage:   api.StageServerError,
			wantMessage: "critical server error: disk on fire",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, false)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/calculate-costs", nil)

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decodeFailure(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantStage, env.Stage)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, env.Error)
			}
			if tt.wantDetails != nil {
				assert.Equal(t, tt.wantDetails, env.Details)
			}
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	h := newTestHandler(t, false)
	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Zero(t, rec.Body.Len())
}

func TestErrorHandler_LogLevel(t *testing.T) {
	logger, capture := testutil.NewCapturingLogger(t)
	h := NewErrorHandler(logger, false)

	h.HandleError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), InvalidType("bad"))
	h.HandleError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))

	testutil.AssertLogContains(t, capture, slog.LevelWarn, "request failed")
	testutil.AssertLogContains(t, capture, slog.LevelError, "request failed")
}

func TestStructValidationDetails(t *testing.T) {
	err := validator.New().Struct(sample{})
	apiErr := newTestHandler(t, false).ToAPIError(err)

	fields, ok := apiErr.Details["fields"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "Products is required", fields["sample.Products"])
	assert.Contains(t, apiErr.Message, "request validation failed")
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	tests := []struct {
		name         string
		includeStack bool
	}{
		{name: "without stack", includeStack: false},
		{name: "with stack", includeStack: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.includeStack)
			rec := httptest.NewRecorder()

			h.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/", nil), "nil map write")

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			env := decodeFailure(t, rec)
			assert.Equal(t, api.StageServerError, env.Stage)
			assert.Equal(t, "an unexpected error occurred", env.Error)
			if tt.includeStack {
				assert.Equal(t, "nil map write", env.Details["panic"])
				assert.NotEmpty(t, env.Details["stack"])
			} else {
				assert.Nil(t, env.Details)
			}
		})
	}
}

func TestErrorHandler_NotFound(t *testing.T) {
	h := newTestHandler(t, false)
	rec := httptest.NewRecorder()

	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeFailure(t, rec)
	assert.Equal(t, api.StageNotFound, env.Stage)
	assert.Equal(t, "/api/nope", env.Details["path"])
}

func TestErrorHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, false)
	rec := httptest.NewRecorder()

	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	env := decodeFailure(t, rec)
	assert.Equal(t, api.StageMethodNotAllowed, env.Stage)
	assert.Equal(t, "method DELETE is not allowed for this endpoint", env.Error)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := newTestHandler(t, false)
	mw := RecoveryMiddleware(h)

	t.Run("recovers panic", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, api.StageServerError, decodeFailure(t, rec).Stage)
	})

	t.Run("passes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("re-panics abort handler", func(t *testing.T) {
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				panic(http.ErrAbortHandler)
			})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestErrorHandlerConcurrency(t *testing.T) {
	h := newTestHandler(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := httptest.NewRecorder()
			h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("error %d", i))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
		}(i)
	}
	wg.Wait()
}
