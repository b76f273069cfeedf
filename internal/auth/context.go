package auth

import "context"

type contextKey struct{}

// AuthContext identifies the member behind a request. Kiosk is set when the
// household runs without PINs and the request was let through unauthenticated.
type AuthContext struct {
	MemberID  int64
	SessionID int64
	Kiosk     bool
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

// MemberID returns the authenticated member's id, or 0 for kiosk requests.
func MemberID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.MemberID
}
