package apiclient

import (
	"context"
	"net/http"

	"github.com/diewo77/qrsona/internal/models"
)

// GetProfile fetches a profile with its option fields and links.
func (c *Client) GetProfile(ctx context.Context, id uint) (*models.Profile, error) {
	var p models.Profile
	err := c.do(ctx, call{
		op:     "get profile",
		method: http.MethodGet,
		path:   idPath("/api/profiles/%d", id),
		out:    &p,
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListUserProfiles returns the profiles owned by userID, newest first.
func (c *Client) ListUserProfiles(ctx context.Context, userID uint) ([]models.Profile, error) {
	var resp models.ProfileListResponse
	err := c.do(ctx, call{
		op:     "list user profiles",
		method: http.MethodGet,
		path:   idPath("/api/users/%d/profiles", userID),
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	if resp.Profiles == nil {
		return []models.Profile{}, nil
	}
	return resp.Profiles, nil
}

func (c *Client) CreateProfile(ctx context.Context, in models.ProfileInput) (*models.Profile, error) {
	var p models.Profile
	err := c.do(ctx, call{
		op:     "create profile",
		method: http.MethodPost,
		path:   "/api/profiles",
		body:   in,
		out:    &p,
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, id uint, in models.ProfileInput) (*models.Profile, error) {
	var p models.Profile
	err := c.do(ctx, call{
		op:     "update profile",
		method: http.MethodPut,
		path:   idPath("/api/profiles/%d", id),
		body:   in,
		out:    &p,
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProfile deletes a profile. The backend also removes every
// connection pointing from or to it.
func (c *Client) DeleteProfile(ctx context.Context, id uint) error {
	return c.do(ctx, call{
		op:     "delete profile",
		method: http.MethodDelete,
		path:   idPath("/api/profiles/%d", id),
	})
}
