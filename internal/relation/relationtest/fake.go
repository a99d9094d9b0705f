// Package relationtest provides an in-memory connection directory for
// tests of code built on package relation.
package relationtest

import (
	"context"
	"sync"
	"time"

	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/models"
)

// Directory stores connections in memory and counts calls. It rejects
// duplicate (source, target) pairs with a KindConflict error, like the
// backend does.
type Directory struct {
	mu     sync.Mutex
	nextID uint
	conns  []models.Connection

	// ListErr, when it returns non-nil for a profile id, fails that listing.
	ListErr func(profileID uint) error
	// CreateErr, when it returns non-nil for a request, fails that create.
	CreateErr func(req models.CreateConnectionRequest) error
	// UpdateErr fails every update when set.
	UpdateErr error

	Lists   []uint
	Creates []models.CreateConnectionRequest
	Updates []uint
}

func New() *Directory {
	return &Directory{nextID: 1}
}

// Seed inserts a connection directly and returns its id.
func (d *Directory) Seed(source, target uint, meta models.EventMeta) uint {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.insert(source, target, meta)
}

func (d *Directory) insert(source, target uint, meta models.EventMeta) uint {
	id := d.nextID
	d.nextID++
	now := time.Now()
	d.conns = append(d.conns, models.Connection{
		ID:                   id,
		ProfileID:            source,
		ConnectUserProfileID: target,
		EventName:            meta.EventName,
		EventDate:            meta.EventDate,
		Memo:                 meta.Memo,
		ConnectedAt:          now,
		UpdatedAt:            now,
	})
	return id
}

func (d *Directory) ListConnections(_ context.Context, profileID uint) ([]models.Connection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Lists = append(d.Lists, profileID)
	if d.ListErr != nil {
		if err := d.ListErr(profileID); err != nil {
			return nil, err
		}
	}
	out := []models.Connection{}
	for _, c := range d.conns {
		if c.ProfileID == profileID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (d *Directory) CreateConnection(_ context.Context, req models.CreateConnectionRequest) (*models.Connection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Creates = append(d.Creates, req)
	if d.CreateErr != nil {
		if err := d.CreateErr(req); err != nil {
			return nil, err
		}
	}
	for _, c := range d.conns {
		if c.ProfileID == req.ProfileID && c.ConnectUserProfileID == req.ConnectUserProfileID {
			return nil, apperr.Status("create connection", 409, "already connected")
		}
	}
	d.insert(req.ProfileID, req.ConnectUserProfileID, req.EventMeta)
	c := d.conns[len(d.conns)-1]
	return &c, nil
}

func (d *Directory) UpdateConnection(_ context.Context, id uint, meta models.EventMeta) (*models.Connection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Updates = append(d.Updates, id)
	if d.UpdateErr != nil {
		return nil, d.UpdateErr
	}
	for i := range d.conns {
		if d.conns[i].ID == id {
			d.conns[i].EventName = meta.EventName
			d.conns[i].EventDate = meta.EventDate
			d.conns[i].Memo = meta.Memo
			d.conns[i].UpdatedAt = time.Now()
			c := d.conns[i]
			return &c, nil
		}
	}
	return nil, apperr.Status("update connection", 404, "connection not found")
}

// Get returns a copy of connection id.
func (d *Directory) Get(id uint) (models.Connection, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.conns {
		if c.ID == id {
			return c, true
		}
	}
	return models.Connection{}, false
}

// Len returns the number of stored connections.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

// ResetCalls clears the call logs.
func (d *Directory) ResetCalls() {
	d.mu.Lock()
	d.Lists, d.Creates, d.Updates = nil, nil, nil
	d.mu.Unlock()
}
