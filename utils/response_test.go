package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, http.StatusBadRequest, "nope")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"nope"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Tomatoes"}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &body))
	assert.Equal(t, "Tomatoes", body.Name)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	assert.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &body))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.Error(t, DecodeJSON(httptest.NewRecorder(), req, &body))
}

func TestGetUUIDIsUnique(t *testing.T) {
	assert.NotEqual(t, GetUUID(), GetUUID())
	assert.Len(t, GetUUID(), 36)
}
