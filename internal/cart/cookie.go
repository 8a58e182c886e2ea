package cart

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/arazdetector/mdbaku/internal/domain"
)

const (
	CookieName = "md_cart"
	cookieAge  = 60 * 60 * 24 * 7

	// MaxLines bounds the distinct products in one cart so the cookie stays under the
	// 4096-byte browser limit.
	MaxLines    = 100
	maxQuantity = 999
	maxValueLen = 3800
)

var ErrCartFull = fmt.Errorf("%w: cart is full", domain.ErrInvalid)

// CookieStore persists a Cart as sig.payload, both base64url, with an HMAC-SHA256 signature.
// The payload holds [id, quantity] pairs only; Hydrate fills in the rest on load.
type CookieStore struct {
	Key    []byte
	Secure bool
}

type wireCart struct {
	Lines [][2]uint `json:"l,omitempty"`
	Open  bool      `json:"o,omitempty"`
}

func NewCookieStore(key []byte, secure bool) *CookieStore {
	return &CookieStore{Key: key, Secure: secure}
}

func (s *CookieStore) sign(b []byte) []byte {
	h := hmac.New(sha256.New, s.Key)
	h.Write(b)
	return h.Sum(nil)
}

// Load returns the request's cart, or an empty one when the cookie is missing or tampered with.
// Lines carry only ID and Quantity.
func (s *CookieStore) Load(r *http.Request) Cart {
	var c Cart
	ck, err := r.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return c
	}
	parts := strings.SplitN(ck.Value, ".", 2)
	if len(parts) != 2 {
		return c
	}
	sig, err1 := base64.RawURLEncoding.DecodeString(parts[0])
	payload, err2 := base64.RawURLEncoding.DecodeString(parts[1])
	if err1 != nil || err2 != nil || !hmac.Equal(sig, s.sign(payload)) {
		log.Debug().Msg("cart cookie rejected")
		return c
	}
	var wc wireCart
	if err := json.Unmarshal(payload, &wc); err != nil {
		return c
	}
	c.Open = wc.Open
	for _, l := range wc.Lines {
		if l[0] == 0 || l[1] == 0 || len(c.Items) == MaxLines {
			continue
		}
		c.Items = append(c.Items, Item{ID: l[0], Quantity: int(min(l[1], maxQuantity))})
	}
	return c
}

// Save writes the cart cookie. It returns ErrCartFull instead of writing a cookie the
// browser would drop.
func (s *CookieStore) Save(w http.ResponseWriter, c Cart) error {
	if len(c.Items) > MaxLines {
		return ErrCartFull
	}
	wc := wireCart{Open: c.Open && !c.Empty()}
	for _, it := range c.Items {
		if it.Quantity <= 0 {
			continue
		}
		wc.Lines = append(wc.Lines, [2]uint{it.ID, uint(min(it.Quantity, maxQuantity))})
	}
	b, err := json.Marshal(wc)
	if err != nil {
		return err
	}
	val := base64.RawURLEncoding.EncodeToString(s.sign(b)) + "." + base64.RawURLEncoding.EncodeToString(b)
	if len(val) > maxValueLen {
		return ErrCartFull
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    val,
		Path:     "/",
		MaxAge:   cookieAge,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
