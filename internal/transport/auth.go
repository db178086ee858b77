package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/session"
)

const (
	loginEndpoint   = "/auth/login/"
	refreshEndpoint = "/auth/refresh/"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *domain.User `json:"user"`
}

// Login exchanges credentials for a token pair and establishes the session.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("marshaling login: %w", err)
	}
	resp, err := c.attempt(ctx, loginEndpoint, http.MethodPost, body, "")
	if err != nil {
		_, nerr := c.networkFailure(ctx, loginEndpoint, http.MethodPost, false, err)
		return nil, nerr
	}
	tokens, err := c.decodeTokens(http.MethodPost, loginEndpoint, resp)
	if err != nil {
		return nil, err
	}

	user := tokens.User
	if user == nil {
		user = userFromToken(tokens.Access, username)
	}
	st := session.State{
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
		User:         user,
		APIBaseURL:   c.baseURL,
	}
	if err := c.session.Establish(ctx, st); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout drops the stored credentials. The backend keeps no client state
// worth revoking beyond token expiry.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Logout(ctx)
}

// refreshAccess exchanges the refresh token once and persists the result.
// Persisting is best effort: the fresh token is still usable for the retry.
func (c *Client) refreshAccess(ctx context.Context, refresh string) (string, error) {
	body, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return "", fmt.Errorf("marshaling refresh: %w", err)
	}
	resp, err := c.attempt(ctx, refreshEndpoint, http.MethodPost, body, "")
	if err != nil {
		return "", fmt.Errorf("refreshing token: %w", err)
	}
	tokens, err := c.decodeTokens(http.MethodPost, refreshEndpoint, resp)
	if err != nil {
		return "", fmt.Errorf("refreshing token: %w", err)
	}
	if err := c.session.Rotate(ctx, tokens.Access, tokens.Refresh); err != nil {
		c.observer.OnRequest(RequestEvent{Method: http.MethodPost, Endpoint: refreshEndpoint, Status: resp.status, Outcome: "PERSIST_FAILED"})
	}
	return tokens.Access, nil
}

func (c *Client) decodeTokens(method, endpoint string, resp *rawResponse) (*tokenResponse, error) {
	if resp.status < 200 || resp.status > 299 {
		msg, payload := errorMessage(resp.body, resp.status)
		return nil, &Error{Status: resp.status, Message: msg, Endpoint: endpoint, Method: method, Payload: payload}
	}
	var tokens tokenResponse
	if err := json.Unmarshal(resp.body, &tokens); err != nil {
		return nil, &Error{Status: resp.status, Message: "decoding token response: " + err.Error(), Endpoint: endpoint, Method: method}
	}
	if tokens.Access == "" {
		return nil, &Error{Status: resp.status, Message: "token response has no access token", Endpoint: endpoint, Method: method}
	}
	return &tokens, nil
}

// userFromToken builds a minimal user from the access token's claims when
// the login reply does not embed one.
func userFromToken(access, username string) *domain.User {
	u := &domain.User{Username: username}
	if claims, err := session.ParseClaims(access); err == nil {
		u.ID = domain.CoalesceID(claims.UserID, domain.ID(claims.Subject))
		u.Username = domain.CoalesceStr(claims.Username, username)
	}
	return u
}
