package transport

import (
	"net/http"
	"time"

	"sweet-layers/internal/middleware"

	"github.com/google/uuid"
)

// CartSessionCookie is the cookie fallback for the cart session header
const CartSessionCookie = "cart_session"

const cartSessionMaxAge = 30 * 24 * time.Hour

// cartSessionID resolves the caller's cart session from the X-Cart-Session
// header or the cart_session cookie, issuing a new one when neither holds a
// UUID. The id is echoed back on the response either way.
func cartSessionID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(middleware.CartSessionHeader)
	if id == "" {
		if cookie, err := r.Cookie(CartSessionCookie); err == nil {
			id = cookie.Value
		}
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		parsed = uuid.New()
	}
	id = parsed.String()

	w.Header().Set(middleware.CartSessionHeader, id)
	http.SetCookie(w, &http.Cookie{
		Name:     CartSessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cartSessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
