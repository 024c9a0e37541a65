package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mealseek/globals"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func capture(got *string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		*got = SessionID(r.Context())
	}
}

func TestSessionFromHeader(t *testing.T) {
	var got string
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.Header.Set(globals.SessionHeader, "abc")
	rec := httptest.NewRecorder()

	Session(capture(&got))(rec, req, nil)
	assert.Equal(t, "abc", got)
	assert.Equal(t, "abc", rec.Header().Get(globals.SessionHeader))
}

func TestSessionFromCookie(t *testing.T) {
	var got string
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.AddCookie(&http.Cookie{Name: globals.SessionCookie, Value: "from-cookie"})

	Session(capture(&got))(httptest.NewRecorder(), req, nil)
	assert.Equal(t, "from-cookie", got)
}

func TestSessionMinted(t *testing.T) {
	var got string
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()

	Session(capture(&got))(rec, req, nil)
	assert.Len(t, got, 36)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), globals.SessionCookie+"="+got)

	req.Header.Set(globals.SessionHeader, strings.Repeat("x", 200))
	Session(capture(&got))(httptest.NewRecorder(), req, nil)
	assert.Len(t, got, 36)
}

func TestSessionIDOutsideMiddleware(t *testing.T) {
	assert.Empty(t, SessionID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
