package supabase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fitpass-app/fitpass/internal/domain/session"
)

// Auth returns the authentication API.
func (c *Client) Auth() *AuthClient {
	return &AuthClient{client: c}
}

// AuthClient talks to /auth/v1.
type AuthClient struct {
	client *Client
}

// AuthResponse is the token grant answer.
type AuthResponse struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	ExpiresAt    int64    `json:"expires_at,omitempty"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

// AuthUser is the user object of the auth API.
type AuthUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (u AuthUser) toDomain() session.User {
	role := u.Role
	if r, ok := u.AppMetadata["role"].(string); ok && r != "" {
		role = r
	}
	return session.User{ID: u.ID, Email: u.Email, Role: role}
}

func (r *AuthResponse) toSession() *session.Session {
	expiresAt := time.Now().UTC().Add(time.Duration(r.ExpiresIn) * time.Second)
	if r.ExpiresAt > 0 {
		expiresAt = time.Unix(r.ExpiresAt, 0).UTC()
	}
	return &session.Session{
		User:         r.User.toDomain(),
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    expiresAt,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthClient) grant(ctx context.Context, path string, grantType string, body any) (*session.Session, error) {
	r := a.client.newRequest(http.MethodPost, path)
	if grantType != "" {
		r.query.Set("grant_type", grantType)
	}
	if err := r.json(body); err != nil {
		return nil, err
	}
	resp, err := a.client.do(ctx, r)
	if err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("auth response without access token")
	}
	return out.toSession(), nil
}

func (a *AuthClient) SignUp(ctx context.Context, email, password string) (*session.Session, error) {
	return a.grant(ctx, "/auth/v1/signup", "", credentials{Email: email, Password: password})
}

func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*session.Session, error) {
	return a.grant(ctx, "/auth/v1/token", "password", credentials{Email: email, Password: password})
}

func (a *AuthClient) RefreshSession(ctx context.Context, refreshToken string) (*session.Session, error) {
	return a.grant(ctx, "/auth/v1/token", "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	c := a.client.WithToken(accessToken)
	_, err := c.do(ctx, c.newRequest(http.MethodPost, "/auth/v1/logout"))
	return err
}

func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (session.User, error) {
	c := a.client.WithToken(accessToken)
	r := c.newRequest(http.MethodGet, "/auth/v1/user")
	r.retryable = true
	resp, err := c.do(ctx, r)
	if err != nil {
		return session.User{}, err
	}
	var u AuthUser
	if err := decode(resp, &u); err != nil {
		return session.User{}, err
	}
	return u.toDomain(), nil
}
