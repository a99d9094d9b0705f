package gate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/qrsona/gate"
)

// mockPolicy is a simple policy for testing with uint subject type.
type mockPolicy struct {
	allowAll bool
}

func (p *mockPolicy) Can(_ context.Context, _ uint, _ gate.Action, _ any) bool {
	return p.allowAll
}

func TestGate_Authorize_NoSubject(t *testing.T) {
	g := gate.NewGate[uint]()
	g.Register("profile", &mockPolicy{allowAll: true})

	err := g.Authorize(context.Background(), 0, gate.ActionView, "profile", nil)
	if !errors.Is(err, gate.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGate_Authorize_NoPolicy(t *testing.T) {
	g := gate.NewGate[uint]()

	err := g.Authorize(context.Background(), 1, gate.ActionView, "unknown", nil)
	if !errors.Is(err, gate.ErrNoPolicyDefined) {
		t.Errorf("expected ErrNoPolicyDefined, got %v", err)
	}
}

func TestGate_Authorize_Allowed(t *testing.T) {
	g := gate.NewGate[uint]()
	g.Register("profile", &mockPolicy{allowAll: true})

	if err := g.Authorize(context.Background(), 1, gate.ActionView, "profile", nil); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestGate_Authorize_Denied(t *testing.T) {
	g := gate.NewGate[uint]()
	g.Register("profile", &mockPolicy{allowAll: false})

	err := g.Authorize(context.Background(), 1, gate.ActionView, "profile", nil)
	if !errors.Is(err, gate.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestGate_Can(t *testing.T) {
	g := gate.NewGate[uint]()
	g.Register("open", &mockPolicy{allowAll: true})
	g.Register("closed", &mockPolicy{allowAll: false})

	if !g.Can(context.Background(), 1, gate.ActionConnect, "open", nil) {
		t.Error("expected Can to return true")
	}
	if g.Can(context.Background(), 1, gate.ActionConnect, "closed", nil) {
		t.Error("expected Can to return false")
	}
}

func TestPolicyFunc_AndAnyOf(t *testing.T) {
	calls := 0
	deny := gate.PolicyFunc[uint](func(context.Context, uint, gate.Action, any) bool {
		calls++
		return false
	})
	onlyView := gate.PolicyFunc[uint](func(_ context.Context, _ uint, a gate.Action, _ any) bool {
		calls++
		return a == gate.ActionView
	})

	p := gate.AnyOf[uint](deny, onlyView)
	if !p.Can(context.Background(), 7, gate.ActionView, nil) {
		t.Error("AnyOf should allow when the second policy allows")
	}
	if calls != 2 {
		t.Errorf("expected both policies consulted, got %d calls", calls)
	}
	if p.Can(context.Background(), 7, gate.ActionDelete, nil) {
		t.Error("AnyOf should deny when no policy allows")
	}
}

// Test with a custom subject type to verify generics work.
type claims struct {
	UserID uint
}

func TestGate_WithPointerSubject(t *testing.T) {
	g := gate.NewGate[*claims]()
	g.Register("profile", gate.PolicyFunc[*claims](func(_ context.Context, c *claims, _ gate.Action, _ any) bool {
		return c.UserID == 1
	}))

	if !g.Can(context.Background(), &claims{UserID: 1}, gate.ActionView, "profile", nil) {
		t.Error("user 1 should be allowed")
	}
	if g.Can(context.Background(), &claims{UserID: 2}, gate.ActionView, "profile", nil) {
		t.Error("user 2 should be denied")
	}
	if err := g.Authorize(context.Background(), nil, gate.ActionView, "profile", nil); !errors.Is(err, gate.ErrUnauthorized) {
		t.Errorf("nil subject should be unauthorized, got %v", err)
	}
}
