package rest

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// sessionID - returns the session of the request, issuing a new id when there is none.
// The cookie is written on every visit so its expiry follows the last visit.
func (that *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	id := ""
	if cookie, err := r.Cookie(that.session.CookieName); err == nil {
		if _, err = uuid.Parse(cookie.Value); err == nil {
			id = cookie.Value
		}
	}

	if id == "" {
		id = uuid.NewString()
		that.logger.Debug("session cookie not found, new one created", "session", id)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     that.session.CookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(that.session.TTL),
		HttpOnly: true,
		Secure:   that.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}
