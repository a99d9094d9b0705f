package policy

import (
	"context"

	"github.com/diewo77/qrsona/gate"
)

// Ownable is implemented by resources that have an owning user.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy allows every action to the owner of the resource.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can reports whether userID owns resource. A nil resource (create) is
// allowed; resources that are not Ownable are denied.
func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == userID
}
