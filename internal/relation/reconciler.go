package relation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/models"
)

// Writer performs connection writes. *apiclient.Client implements it.
type Writer interface {
	CreateConnection(ctx context.Context, req models.CreateConnectionRequest) (*models.Connection, error)
	UpdateConnection(ctx context.Context, id uint, meta models.EventMeta) (*models.Connection, error)
}

// Origin tells the reconciler how the user reached the friend form.
type Origin int

const (
	// OriginExchange is a QR scan: both sides get a record.
	OriginExchange Origin = iota
	// OriginDirectAdd is "add friend" from a profile page: one record only.
	OriginDirectAdd
)

func (o Origin) String() string {
	if o == OriginDirectAdd {
		return "direct_add"
	}
	return "exchange"
}

// Status summarizes what a reconciliation wrote.
type Status int

const (
	// Updated means an existing record had its metadata replaced.
	Updated Status = iota + 1
	// Created means the forward record was created and no mirror was wanted.
	Created
	// BothCreated means forward and mirror records were created.
	BothCreated
	// ForwardOnly means the forward record exists but the mirror write failed.
	ForwardOnly
)

func (s Status) String() string {
	switch s {
	case Updated:
		return "updated"
	case Created:
		return "created"
	case BothCreated:
		return "both_created"
	case ForwardOnly:
		return "forward_only"
	default:
		return "unknown"
	}
}

// Result reports the outcome of Reconcile.
type Result struct {
	Status Status
	// ConnectionID is the updated record or the new forward record.
	ConnectionID uint
	// MirrorID is the new their -> my record, when one was created.
	MirrorID uint
	// MirrorErr is the mirror failure behind ForwardOnly.
	MirrorErr error
}

// Reconciler turns a resolved relationship and submitted metadata into
// the minimal set of writes.
type Reconciler struct {
	w      Writer
	logger *slog.Logger
}

// NewReconciler returns a reconciler writing through w. A nil logger
// means slog.Default().
func NewReconciler(w Writer, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{w: w, logger: logger}
}

// Reconcile applies meta to the relationship between my and their.
//
// Forward and Reverse update the known record in place and never create.
// None creates my -> their; for OriginExchange it then creates their ->
// my with the same metadata. The two creates are not atomic: a failed
// mirror leaves the forward record in place and reports ForwardOnly.
func (rc *Reconciler) Reconcile(ctx context.Context, my, their uint, meta models.EventMeta, out Outcome, origin Origin) (Result, error) {
	const op = "reconcile connection"
	if err := checkPair(op, my, their); err != nil {
		return Result{}, err
	}
	if v := meta.Validate(); !v.Empty() {
		return Result{}, apperr.Validation(op, v)
	}

	switch out.Direction {
	case Forward, Reverse:
		if out.ConnectionID == 0 {
			return Result{}, apperr.Validation(op, map[string]string{"connection_id": "required"})
		}
		if _, err := rc.w.UpdateConnection(ctx, out.ConnectionID, meta); err != nil {
			return Result{}, fmt.Errorf("update %s connection %d: %w", out.Direction, out.ConnectionID, err)
		}
		return Result{Status: Updated, ConnectionID: out.ConnectionID}, nil
	}

	fwd, err := rc.w.CreateConnection(ctx, models.CreateConnectionRequest{
		ProfileID:            my,
		ConnectUserProfileID: their,
		EventMeta:            meta,
	})
	if err != nil {
		return Result{}, fmt.Errorf("create connection: %w", err)
	}
	res := Result{Status: Created, ConnectionID: fwd.ID}
	if origin != OriginExchange {
		return res, nil
	}

	mirror, err := rc.CreateMirror(ctx, my, their, meta)
	if err != nil {
		rc.logger.WarnContext(ctx, "mirror connection not created",
			"connection_id", fwd.ID, "my_profile_id", my, "their_profile_id", their, "error", err)
		res.Status = ForwardOnly
		res.MirrorErr = err
		return res, nil
	}
	res.Status = BothCreated
	res.MirrorID = mirror.ID
	return res, nil
}

// CreateMirror creates the their -> my record. Callers use it to retry
// after a ForwardOnly result; a KindConflict error means the mirror
// already exists.
func (rc *Reconciler) CreateMirror(ctx context.Context, my, their uint, meta models.EventMeta) (*models.Connection, error) {
	if err := checkPair("create mirror connection", my, their); err != nil {
		return nil, err
	}
	c, err := rc.w.CreateConnection(ctx, models.CreateConnectionRequest{
		ProfileID:            their,
		ConnectUserProfileID: my,
		EventMeta:            meta,
	})
	if err != nil {
		return nil, fmt.Errorf("create mirror connection: %w", err)
	}
	return c, nil
}

// ErrMirrorExists is returned by EnsureMirror when nothing had to be done.
var ErrMirrorExists = errors.New("mirror connection already exists")

// EnsureMirror creates their -> my only when the directory does not
// already list it.
func (rc *Reconciler) EnsureMirror(ctx context.Context, dir Directory, my, their uint, meta models.EventMeta) (*models.Connection, error) {
	if err := checkPair("ensure mirror connection", my, their); err != nil {
		return nil, err
	}
	existing, err := dir.ListConnections(ctx, their)
	if err != nil {
		return nil, fmt.Errorf("list mirror candidates: %w", err)
	}
	if c := firstTarget(existing, my); c != nil {
		return c, ErrMirrorExists
	}
	return rc.CreateMirror(ctx, my, their, meta)
}
