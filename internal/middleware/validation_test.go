package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "landedcost/internal/errors"
	"landedcost/internal/shared/testutil"
	api "landedcost/pkg/contracts/api/v1"
)

func TestRequestValidator_DecodeJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantStage string
		wantField string
	}{
		{name: "valid", body: `{"products":[{"name":"Pneu","quantity":1,"total":10}]}`},
		{name: "empty body", body: "", wantStage: api.StageJSONValidation},
		{name: "malformed", body: `{"products":`, wantStage: api.StageJSONValidation},
		{name: "no products", body: `{"products":[]}`, wantField: "products"},
		{name: "bad filename", body: `{"products":[{"name":"a"}],"filename":"../etc/passwd"}`, wantField: "filename"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewRequestValidator(testutil.NewTestLogger(t))
			req := httptest.NewRequest(http.MethodPost, "/api/calculate-costs", strings.NewReader(tt.body))
			var dst api.AllocationRequest

			err := v.DecodeJSON(httptest.NewRecorder(), req, &dst)

			switch {
			case tt.wantStage != "":
				var apiErr *apierrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.wantStage, apiErr.Stage)
			case tt.wantField != "":
				var fieldErrs validator.ValidationErrors
				require.True(t, errors.As(err, &fieldErrs))
				assert.Equal(t, tt.wantField, fieldErrs[0].Field())
			default:
				require.NoError(t, err)
				assert.Len(t, dst.Products, 1)
			}
		})
	}
}

func TestRequestValidator_BodyLimit(t *testing.T) {
	v := NewRequestValidator(testutil.NewTestLogger(t))
	v.maxBodySize = 16

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"products":[{"name":"a long product name"}]}`))
	err := v.DecodeJSON(httptest.NewRecorder(), req, &api.AllocationRequest{})

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.StatusCode)
}

func TestIsValidFilename(t *testing.T) {
	v := NewRequestValidator(testutil.NewTestLogger(t))

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"plain", "quote.xlsx", true},
		{"traversal", "../quote.xlsx", false},
		{"slash", "dir/quote.xlsx", false},
		{"backslash", `dir\quote.xlsx`, false},
		{"too long", strings.Repeat("a", 256), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.validator.Var(tt.value, "filename")
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
