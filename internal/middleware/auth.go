package middleware

import (
	"net/http"

	"github.com/eco-abhi/hearth/internal/auth"
	"github.com/eco-abhi/hearth/internal/store"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "hearth_session"

// RequireAuth validates the session cookie and populates the auth context.
// A household where no member has a PIN runs in kiosk mode: requests pass
// through unauthenticated so a wall-mounted tablet needs no login.
func RequireAuth(sessions *store.SessionStore, members *store.MemberStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				sess, err := sessions.GetByToken(cookie.Value)
				if err == nil && sess != nil {
					ac := auth.AuthContext{
						MemberID:  sess.MemberID,
						SessionID: sess.ID,
					}
					next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), ac)))
					return
				}
			}

			anyPIN, err := members.AnyPINSet()
			if err != nil {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if !anyPIN {
				ctx := auth.WithAuth(r.Context(), auth.AuthContext{Kiosk: true})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"authentication required"}`))
		})
	}
}
