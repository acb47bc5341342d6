package repository

import (
	"context"
	"net/http"

	"github.com/BruksfildServices01/barber-dashboard/internal/models"
	"github.com/BruksfildServices01/barber-dashboard/internal/session"
)

type AuthHTTPClient struct {
	client *Client
}

func NewAuthHTTPClient(client *Client) *AuthHTTPClient {
	return &AuthHTTPClient{client: client}
}

// Authenticate posts the credentials to /auth/login. It never sends a bearer
// token and never tears a session down on 401: a 401 here means bad
// credentials.
func (a *AuthHTTPClient) Authenticate(
	ctx context.Context,
	creds models.Credentials,
) (*models.LoginResponse, error) {

	var out models.LoginResponse
	if err := a.client.do(ctx, "login", http.MethodPost, "/auth/login", nil, creds, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ session.Authenticator = (*AuthHTTPClient)(nil)
