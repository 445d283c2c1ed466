package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bissquit/statusdash/internal/domain"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	in := LoginRequest{Email: email, Password: password}
	if err := c.check(in); err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, endpoint: "/users/login", path: "/users/login", body: in}, &out); err != nil {
		return nil, err
	}
	return validateAuth(&out)
}

// Register creates an account. Backends that answer with the bare user
// yield a response without a token.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error) {
	if err := c.check(in); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodPost, endpoint: "/users/register", path: "/users/register", body: in}, &raw); err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode register response: %v", ErrInvalidResponse, err)
	}
	if out.AccessToken == "" && out.User == nil {
		var user domain.User
		if err := json.Unmarshal(raw, &user); err != nil {
			return nil, fmt.Errorf("%w: decode register response: %v", ErrInvalidResponse, err)
		}
		out.User = &user
	}
	if out.User != nil {
		if err := checkResponse(out.User); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "/users/me", path: "/users/me"}, &user); err != nil {
		return nil, err
	}
	if err := checkResponse(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser returns the user token belongs to, regardless of the
// client's own token source.
func (c *Client) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return c.WithToken(token).Me(ctx)
}

func validateAuth(out *AuthResponse) (*AuthResponse, error) {
	if out.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access_token", ErrInvalidResponse)
	}
	if out.User != nil {
		if err := checkResponse(out.User); err != nil {
			return nil, err
		}
	}
	return out, nil
}
