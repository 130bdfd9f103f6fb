package apiErrors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, StatusFor(ErrExpiredToken))
	assert.Equal(t, http.StatusForbidden, StatusFor(ErrSalesForbidden))
	assert.Equal(t, http.StatusNotFound, StatusFor(ErrSalesNotFound))
	assert.Equal(t, http.StatusBadRequest, StatusFor(ErrValidationFailed))
	assert.Equal(t, http.StatusInternalServerError, StatusFor("XYZ_999"))
}

func TestWriteValidationError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteValidationError(rec, "Dados inválidos", map[string]string{"date": "Campo obrigatório"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, ErrValidationFailed, body.Code)
	assert.Equal(t, "Dados inválidos", body.Error)
	assert.Equal(t, "Campo obrigatório", body.FieldErrors["date"])
}
