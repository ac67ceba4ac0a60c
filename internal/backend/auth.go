package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/odyssey-erp/admin-console/internal/roles"
	"github.com/odyssey-erp/admin-console/internal/session"
)

const (
	loginPath  = "/auth/login/"
	userPath   = "/auth/user/"
	logoutPath = "/auth/logout/"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

// userDTO accepts numeric or string ids and both timestamp spellings.
type userDTO struct {
	ID        ID         `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"createdAt"`
	Created   *time.Time `json:"created_at"`
}

func (d userDTO) toUser() session.User {
	u := session.User{
		ID:    strings.TrimSpace(d.ID.String()),
		Email: d.Email,
		Name:  d.Name,
		Role:  roles.Role(d.Role),
	}
	switch {
	case d.CreatedAt != nil:
		u.CreatedAt = *d.CreatedAt
	case d.Created != nil:
		u.CreatedAt = *d.Created
	}
	return u
}

// Login posts credentials. 400 and 401 responses become
// session.ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (string, session.User, error) {
	var resp loginResponse
	err := c.send(ctx, call{
		method: http.MethodPost,
		path:   loginPath,
		in:     loginRequest{Email: email, Password: password},
		out:    &resp,
	})
	if err != nil {
		if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrBadRequest) {
			return "", session.User{}, fmt.Errorf("%w: %w", session.ErrInvalidCredentials, err)
		}
		return "", session.User{}, err
	}
	return resp.Token, resp.User.toUser(), nil
}

// CurrentUser fetches the user that owns token.
func (c *Client) CurrentUser(ctx context.Context, token string) (session.User, error) {
	var dto userDTO
	err := c.send(ctx, call{method: http.MethodGet, path: userPath, token: token, out: &dto})
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return session.User{}, fmt.Errorf("%w: %w", session.ErrUnauthenticated, err)
		}
		return session.User{}, err
	}
	return dto.toUser(), nil
}

// Logout tells the backend that token is no longer used.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.send(ctx, call{method: http.MethodPost, path: logoutPath, token: token})
}

var (
	_ session.Authenticator = (*Client)(nil)
	_ session.HeaderSink    = (*Client)(nil)
)
