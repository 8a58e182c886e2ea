package supabase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/arazdetector/mdbaku/internal/domain"
)

// Auth signs admins in through GoTrue. It uses the anon key.
type Auth struct {
	c   *Client
	now func() time.Time
}

func NewAuth(c *Client) *Auth { return &Auth{c: c, now: time.Now} }

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (t tokenResponse) token(now time.Time) *oauth2.Token {
	tok := &oauth2.Token{AccessToken: t.AccessToken, TokenType: t.TokenType, RefreshToken: t.RefreshToken}
	switch {
	case t.ExpiresAt > 0:
		tok.Expiry = time.Unix(t.ExpiresAt, 0)
	case t.ExpiresIn > 0:
		tok.Expiry = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return tok
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (domain.Principal, *oauth2.Token, error) {
	var res tokenResponse
	err := a.c.doJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=password",
		map[string]string{"email": email, "password": password}, "", &res)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return domain.Principal{}, nil, domain.ErrUnauthorized
		}
		return domain.Principal{}, nil, err
	}
	p := domain.Principal{UserID: res.User.ID, Email: res.User.Email, Provider: domain.ProviderPassword}
	return p, res.token(a.now()), nil
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, domain.ErrUnauthorized
	}
	var res tokenResponse
	err := a.c.doJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token",
		map[string]string{"refresh_token": refreshToken}, "", &res)
	if err != nil {
		return nil, err
	}
	return res.token(a.now()), nil
}

func (a *Auth) SignOut(ctx context.Context, accessToken string) error {
	return a.c.doJSON(ctx, http.MethodPost, "/auth/v1/logout", nil, accessToken, nil)
}
