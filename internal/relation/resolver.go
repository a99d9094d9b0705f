// Package relation decides whether two profiles are already connected
// and reconciles a friend-add or friend-edit into create or update calls.
//
// A connection is directed: "source knows target". Between two profiles
// there may be no record, one record in either direction, or both. The
// Resolver reports which record to edit; the Reconciler performs the
// write that keeps the pair consistent.
package relation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/models"
	"golang.org/x/sync/errgroup"
)

// Directory lists the connections whose source is profileID, in the
// backend's order. *apiclient.Client implements it.
type Directory interface {
	ListConnections(ctx context.Context, profileID uint) ([]models.Connection, error)
}

// Direction is the kind of relationship found between two profiles.
type Direction int

const (
	// None means no record links the two profiles.
	None Direction = iota
	// Forward means my -> their exists.
	Forward
	// Reverse means only their -> my exists.
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "FORWARD"
	case Reverse:
		return "REVERSE"
	default:
		return "NONE"
	}
}

// Outcome is the result of a resolution. ConnectionID and Connection
// are set only for Forward and Reverse.
type Outcome struct {
	Direction    Direction
	ConnectionID uint
	// Connection is the matched record, used to prefill edit forms.
	Connection *models.Connection
	// ReverseErr is set when the reverse probe failed and the outcome was
	// reported as None anyway. A later create may then hit a duplicate.
	ReverseErr error
}

// Found reports whether a record exists in either direction.
func (o Outcome) Found() bool { return o.Direction != None }

// Resolver answers "are these two profiles already connected, and by
// which record?".
type Resolver struct {
	dir        Directory
	concurrent bool
	logger     *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithConcurrentProbes issues the forward and reverse listings at the
// same time. The forward record still wins when both exist.
func WithConcurrentProbes() ResolverOption {
	return func(r *Resolver) { r.concurrent = true }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

func NewResolver(dir Directory, opts ...ResolverOption) *Resolver {
	r := &Resolver{dir: dir, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve looks for my -> their first, then their -> my.
//
// A failure listing my connections is returned as is. A failure listing
// their connections is logged and reported as None with ReverseErr set.
// Under a context from WithMemo a pair is resolved at most once.
func (r *Resolver) Resolve(ctx context.Context, my, their uint) (Outcome, error) {
	if err := checkPair("resolve relationship", my, their); err != nil {
		return Outcome{}, err
	}
	m := memoFrom(ctx)
	if m != nil {
		if out, ok := m.get(my, their); ok {
			return out, nil
		}
	}
	out, err := r.resolve(ctx, my, their)
	if err == nil && m != nil {
		m.put(my, their, out)
	}
	return out, err
}

func (r *Resolver) resolve(ctx context.Context, my, their uint) (Outcome, error) {
	if r.concurrent {
		return r.resolveConcurrent(ctx, my, their)
	}

	forward, err := r.dir.ListConnections(ctx, my)
	if err != nil {
		return Outcome{}, fmt.Errorf("forward probe: %w", err)
	}
	if c := firstTarget(forward, their); c != nil {
		return outcome(Forward, c), nil
	}

	reverse, err := r.dir.ListConnections(ctx, their)
	if err != nil {
		return r.reverseFailed(ctx, my, their, err), nil
	}
	if c := firstTarget(reverse, my); c != nil {
		return outcome(Reverse, c), nil
	}
	return Outcome{Direction: None}, nil
}

func (r *Resolver) resolveConcurrent(ctx context.Context, my, their uint) (Outcome, error) {
	g, gctx := errgroup.WithContext(ctx)

	var forward, reverse []models.Connection
	var reverseErr error
	g.Go(func() error {
		var err error
		forward, err = r.dir.ListConnections(gctx, my)
		if err != nil {
			return fmt.Errorf("forward probe: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// Never fails the group: a broken reverse probe degrades to None.
		reverse, reverseErr = r.dir.ListConnections(gctx, their)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}

	if c := firstTarget(forward, their); c != nil {
		return outcome(Forward, c), nil
	}
	if reverseErr != nil {
		return r.reverseFailed(ctx, my, their, reverseErr), nil
	}
	if c := firstTarget(reverse, my); c != nil {
		return outcome(Reverse, c), nil
	}
	return Outcome{Direction: None}, nil
}

func (r *Resolver) reverseFailed(ctx context.Context, my, their uint, err error) Outcome {
	r.logger.WarnContext(ctx, "reverse probe failed, assuming no relationship",
		"my_profile_id", my, "their_profile_id", their, "error", err)
	return Outcome{Direction: None, ReverseErr: err}
}

// firstTarget returns the first record pointing at target, in list order.
func firstTarget(list []models.Connection, target uint) *models.Connection {
	for i := range list {
		if list[i].ConnectUserProfileID == target {
			c := list[i]
			return &c
		}
	}
	return nil
}

func outcome(d Direction, c *models.Connection) Outcome {
	return Outcome{Direction: d, ConnectionID: c.ID, Connection: c}
}

func checkPair(op string, my, their uint) error {
	fields := map[string]string{}
	if my == 0 {
		fields["my_profile_id"] = "required"
	}
	if their == 0 {
		fields["their_profile_id"] = "required"
	}
	if my != 0 && my == their {
		fields["their_profile_id"] = "self_connection"
	}
	if len(fields) > 0 {
		return apperr.Validation(op, fields)
	}
	return nil
}
