// Package google signs admins in with their Google account.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/arazdetector/mdbaku/internal/domain"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

type OAuth struct {
	cfg         *oauth2.Config
	userInfoURL string
}

// New returns nil when the client credentials are missing.
func New(clientID, clientSecret, redirectURL string) *OAuth {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &OAuth{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: userInfoURL,
	}
}

func (o *OAuth) AuthCodeURL(state string) string {
	return o.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for a token and reads the verified e-mail.
func (o *OAuth) Exchange(ctx context.Context, code string) (domain.Principal, *oauth2.Token, error) {
	tok, err := o.cfg.Exchange(ctx, code)
	if err != nil {
		return domain.Principal{}, nil, fmt.Errorf("oauth exchange: %w", err)
	}
	resp, err := o.cfg.Client(ctx, tok).Get(o.userInfoURL)
	if err != nil {
		return domain.Principal{}, nil, fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.Principal{}, nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	var info struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return domain.Principal{}, nil, err
	}
	if info.Email == "" || !info.EmailVerified {
		return domain.Principal{}, nil, domain.ErrUnauthorized
	}
	return domain.Principal{UserID: info.Sub, Email: info.Email, Provider: domain.ProviderGoogle}, tok, nil
}
