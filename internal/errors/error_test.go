package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"invalid input", New(ErrInvalidInput, "bad id", nil), http.StatusBadRequest, "INVALID_INPUT", "bad id"},
		{"not found", New(ErrNotFound, "Data not found", nil), http.StatusNotFound, "NOT_FOUND", "Data not found"},
		{"plain error is internal", fmt.Errorf("dial tcp: refused"), http.StatusInternalServerError, "INTERNAL", "Unexpected system error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, httptest.NewRequest(http.MethodGet, "/api/users/1", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["error_code"])
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.NotContains(t, rec.Body.String(), "refused")
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("cause")
	err := New(ErrInternal, "wrapped", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "INTERNAL: wrapped", err.Error())
}
