package apiclient

import (
	"context"
	"net/http"

	"github.com/diewo77/qrsona/internal/models"
)

// SignIn exchanges credentials for a bearer token. The caller decides
// whether to persist the returned session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do(ctx, call{
		op:     "sign in",
		method: http.MethodPost,
		path:   "/api/signin",
		body:   models.SignInRequest{Email: email, Password: password},
		out:    &resp,
		public: true,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do(ctx, call{
		op:     "sign up",
		method: http.MethodPost,
		path:   "/api/signup",
		body:   req,
		out:    &resp,
		public: true,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateQR asks the backend to render link as a PNG data URI.
func (c *Client) GenerateQR(ctx context.Context, link string) (*models.QRCodeResponse, error) {
	var resp models.QRCodeResponse
	err := c.do(ctx, call{
		op:     "generate qr",
		method: http.MethodPost,
		path:   "/api/generate-qr",
		body:   models.QRCodeRequest{URL: link},
		out:    &resp,
		public: true,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
