package http

import (
	"net/http"

	"github.com/google/uuid"
)

const identityCookieName = "vineyard_id"

// getOrSetIdentity returns the caller's anonymous identity, issuing a new
// cookie on first contact.
func getOrSetIdentity(w http.ResponseWriter, r *http.Request) string {
	if id := identityFromCookie(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, identityCookie(id))
	return id
}

// identityForUpgrade is getOrSetIdentity for websocket handshakes, where the
// cookie has to travel in the upgrade response header.
func identityForUpgrade(r *http.Request) (string, http.Header) {
	if id := identityFromCookie(r); id != "" {
		return id, nil
	}
	id := uuid.NewString()
	header := http.Header{}
	header.Add("Set-Cookie", identityCookie(id).String())
	return id, header
}

func identityFromCookie(r *http.Request) string {
	c, err := r.Cookie(identityCookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

func identityCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     identityCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
