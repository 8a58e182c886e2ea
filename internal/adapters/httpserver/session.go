package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"
	"golang.org/x/oauth2"

	"github.com/arazdetector/mdbaku/internal/domain"
)

const (
	sessionCookie = "md_admin"
	sessionAge    = 60 * 60 * 24 * 7
	// tokens this close to expiry are refreshed ahead of time
	refreshLeeway = 30 * time.Second
)

type adminSession struct {
	Principal    domain.Principal `json:"p"`
	AccessToken  string           `json:"at"`
	RefreshToken string           `json:"rt,omitempty"`
	Expiry       time.Time        `json:"exp,omitempty"`
}

func newSession(p domain.Principal, tok *oauth2.Token) adminSession {
	s := adminSession{Principal: p}
	if tok != nil {
		s.AccessToken = tok.AccessToken
		s.RefreshToken = tok.RefreshToken
		s.Expiry = tok.Expiry
	}
	return s
}

func (s *Server) sign(b []byte) []byte {
	h := hmac.New(sha256.New, s.SessionKey)
	h.Write(b)
	return h.Sum(nil)
}

func (s *Server) writeSession(w http.ResponseWriter, sess *adminSession) {
	if sess == nil {
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: s.Secure, SameSite: http.SameSiteLaxMode})
		return
	}
	b, _ := json.Marshal(sess)
	val := base64.RawURLEncoding.EncodeToString(s.sign(b)) + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: val, Path: "/", MaxAge: sessionAge, HttpOnly: true, Secure: s.Secure, SameSite: http.SameSiteLaxMode})
}

func (s *Server) readSession(r *http.Request) *adminSession {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return nil
	}
	sig, err1 := base64.RawURLEncoding.DecodeString(parts[0])
	payload, err2 := base64.RawURLEncoding.DecodeString(parts[1])
	if err1 != nil || err2 != nil || !hmac.Equal(sig, s.sign(payload)) {
		return nil
	}
	var sess adminSession
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil
	}
	if sess.Principal.UserID == "" && sess.Principal.Email == "" {
		return nil
	}
	return &sess
}

// adminSession attaches the signed-in principal to the context, refreshing an expiring
// token first. A session that cannot be refreshed is dropped.
func (s *Server) adminSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.readSession(r)
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}
		if !sess.Expiry.IsZero() && s.Now().Add(refreshLeeway).After(sess.Expiry) {
			if !s.refresh(r, sess) {
				s.writeSession(w, nil)
				next.ServeHTTP(w, r)
				return
			}
			s.writeSession(w, sess)
		}
		next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), sess.Principal)))
	})
}

func (s *Server) refresh(r *http.Request, sess *adminSession) bool {
	if s.Identity == nil || sess.RefreshToken == "" || sess.Principal.Provider != domain.ProviderPassword {
		return false
	}
	tok, err := s.Identity.Refresh(r.Context(), sess.RefreshToken)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("email", sess.Principal.Email).Msg("session refresh")
		return false
	}
	sess.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		sess.RefreshToken = tok.RefreshToken
	}
	sess.Expiry = tok.Expiry
	return true
}
