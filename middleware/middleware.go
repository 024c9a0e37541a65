package middleware

import (
	"context"
	"net/http"
	"strings"

	"mealseek/globals"
	"mealseek/utils"

	"github.com/julienschmidt/httprouter"
)

const maxSessionIDLen = 64

// Session resolves the caller's session id from the X-Session-ID header or the
// session cookie, minting a new one when neither is usable. The id is echoed
// back in both so browser and API clients keep it.
func Session(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := strings.TrimSpace(r.Header.Get(globals.SessionHeader))
		if id == "" {
			if c, err := r.Cookie(globals.SessionCookie); err == nil {
				id = c.Value
			}
		}
		if id == "" || len(id) > maxSessionIDLen {
			id = utils.GetUUID()
		}

		w.Header().Set(globals.SessionHeader, id)
		http.SetCookie(w, &http.Cookie{
			Name:     globals.SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		ctx := context.WithValue(r.Context(), globals.SessionIDKey, id)
		next(w, r.WithContext(ctx), ps)
	}
}

// SessionID returns the id stored by Session, or "" outside of it.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(globals.SessionIDKey).(string)
	return id
}
