// Package gate provides a small Gate/Policy authorization registry.
// The Gate maps a resource type name to a Policy; each Policy decides
// whether a subject may perform an action on one resource. The package
// has no dependency on domain models.
//
// Subjects are generic:
//   - Gate[uint] for user ID based checks (what QRsona uses)
//   - Gate[*Claims] for token claims based checks
package gate

import (
	"context"
	"sync"
)

// Gate is the central authorization checkpoint.
// U is the subject type; its zero value means "nobody is signed in".
type Gate[U comparable] struct {
	mu       sync.RWMutex
	policies map[string]Policy[U]
}

// NewGate creates an empty Gate ready to register policies.
func NewGate[U comparable]() *Gate[U] {
	return &Gate[U]{policies: make(map[string]Policy[U])}
}

// Register adds a policy for a resource type (e.g. "profile").
// Overwrites any existing policy for that type.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.mu.Lock()
	g.policies[resourceType] = p
	g.mu.Unlock()
}

// Authorize returns nil when subject may perform action on resource.
//   - ErrUnauthorized: zero-value subject
//   - ErrNoPolicyDefined: nothing registered for resourceType
//   - ErrForbidden: the policy refused
func (g *Gate[U]) Authorize(ctx context.Context, subject U, action Action, resourceType string, resource any) error {
	var zero U
	if subject == zero {
		return ErrUnauthorized
	}
	g.mu.RLock()
	p, ok := g.policies[resourceType]
	g.mu.RUnlock()
	if !ok {
		return ErrNoPolicyDefined
	}
	if !p.Can(ctx, subject, action, resource) {
		return ErrForbidden
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate[U]) Can(ctx context.Context, subject U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, subject, action, resourceType, resource) == nil
}
