package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/models"
)

// ListConnections returns the connections whose source is profileID, in
// the order the backend returned them. A profile with no connections
// yields an empty slice, never an error.
func (c *Client) ListConnections(ctx context.Context, profileID uint) ([]models.Connection, error) {
	const op = "list connections"
	if profileID == 0 {
		return nil, apperr.Validation(op, map[string]string{"profile_id": "required"})
	}
	var resp models.ConnectionListResponse
	err := c.do(ctx, call{
		op:     op,
		method: http.MethodGet,
		path:   "/api/connections",
		query:  url.Values{"profile_id": {strconv.FormatUint(uint64(profileID), 10)}},
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	if resp.Connections == nil {
		return []models.Connection{}, nil
	}
	return resp.Connections, nil
}

// GetConnection fetches one connection by id.
func (c *Client) GetConnection(ctx context.Context, id uint) (*models.Connection, error) {
	var resp models.ConnectionResponse
	err := c.do(ctx, call{
		op:     "get connection",
		method: http.MethodGet,
		path:   idPath("/api/connections/%d", id),
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp.Connection, nil
}

// CreateConnection writes one directed record. The backend answers 409
// (KindConflict) when the pair already exists.
func (c *Client) CreateConnection(ctx context.Context, req models.CreateConnectionRequest) (*models.Connection, error) {
	var resp models.ConnectionResponse
	err := c.do(ctx, call{
		op:     "create connection",
		method: http.MethodPost,
		path:   "/api/connections",
		body:   req,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp.Connection, nil
}

// UpdateConnection replaces the event metadata of connection id. The
// endpoints of the record never change.
func (c *Client) UpdateConnection(ctx context.Context, id uint, meta models.EventMeta) (*models.Connection, error) {
	var resp models.ConnectionResponse
	err := c.do(ctx, call{
		op:     "update connection",
		method: http.MethodPut,
		path:   idPath("/api/connections/%d", id),
		body:   meta,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp.Connection, nil
}

// DeleteConnection removes a single directed record.
func (c *Client) DeleteConnection(ctx context.Context, id uint) error {
	return c.do(ctx, call{
		op:     "delete connection",
		method: http.MethodDelete,
		path:   idPath("/api/connections/%d", id),
	})
}
