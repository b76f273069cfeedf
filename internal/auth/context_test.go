package auth

import (
	"context"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{MemberID: 7, SessionID: 3})

	ac, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected auth context to be present")
	}
	if ac.MemberID != 7 || ac.SessionID != 3 {
		t.Errorf("got %+v", ac)
	}
	if MemberID(ctx) != 7 {
		t.Errorf("got member id %d, want 7", MemberID(ctx))
	}
}

func TestContextMissing(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no auth context on a bare context")
	}
	if MemberID(context.Background()) != 0 {
		t.Error("expected zero member id without auth context")
	}
}

func TestKioskContext(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{Kiosk: true})
	ac, _ := FromContext(ctx)
	if !ac.Kiosk {
		t.Error("expected kiosk flag to survive the round trip")
	}
	if MemberID(ctx) != 0 {
		t.Error("kiosk requests have no member id")
	}
}
