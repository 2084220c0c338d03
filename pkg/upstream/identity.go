package upstream

import (
	"context"
	"net/http"

	"github.com/merchdrop/storefront-gateway/pkg/enums"
	pkgerrors "github.com/merchdrop/storefront-gateway/pkg/errors"
)

// LoginResult is the normalized outcome of an upstream credential check.
type LoginResult struct {
	UserID      string
	Email       string
	Role        enums.AccountRole
	AccessToken string
}

// Login forwards credentials to the upstream identity API and normalizes the
// response shape. An unparseable role comes back empty, not as an error.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]any{"email": email, "password": password}
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", body, &raw); err != nil {
		return nil, err
	}

	userID := ExtractUserID(raw)
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "login response missing user id")
	}

	result := &LoginResult{
		UserID:      userID,
		Email:       email,
		AccessToken: ExtractAccessToken(raw),
	}
	if role, err := enums.ParseAccountRole(ExtractRole(raw)); err == nil {
		result.Role = role
	}
	return result, nil
}

// CurrentRole fetches the acting user's role. Failures degrade to "role
// unknown" so callers can treat them as non-fatal.
func (c *Client) CurrentRole(ctx context.Context, actingUserID string) enums.AccountRole {
	var raw map[string]any
	if err := c.do(ctx, http.MethodGet, "/v1/auth/me", actingUserID, nil, &raw); err != nil {
		return ""
	}
	role, err := enums.ParseAccountRole(ExtractRole(raw))
	if err != nil {
		return ""
	}
	return role
}
