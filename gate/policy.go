package gate

import "context"

// Policy defines authorization rules for a resource type.
// U is the subject type (e.g. uint for a user ID).
type Policy[U any] interface {
	// Can returns true if subject may perform action on resource.
	// For create, resource may be nil (context-only check).
	Can(ctx context.Context, subject U, action Action, resource any) bool
}

// PolicyFunc adapts a plain function to the Policy interface.
type PolicyFunc[U any] func(ctx context.Context, subject U, action Action, resource any) bool

// Can calls f.
func (f PolicyFunc[U]) Can(ctx context.Context, subject U, action Action, resource any) bool {
	return f(ctx, subject, action, resource)
}

// AnyOf allows the action when at least one of the policies allows it.
// Policies are consulted in order and evaluation stops at the first yes.
func AnyOf[U any](policies ...Policy[U]) Policy[U] {
	return PolicyFunc[U](func(ctx context.Context, subject U, action Action, resource any) bool {
		for _, p := range policies {
			if p.Can(ctx, subject, action, resource) {
				return true
			}
		}
		return false
	})
}
