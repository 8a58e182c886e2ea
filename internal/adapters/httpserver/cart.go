package httpserver

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/arazdetector/mdbaku/internal/cart"
	"github.com/arazdetector/mdbaku/internal/domain"
)

type cartSummary struct {
	Items      []cart.Item `json:"items"`
	TotalItems int         `json:"total_items"`
	TotalPrice string      `json:"total_price"`
	Open       bool        `json:"open"`
}

// loadCart reads the cookie and fills the lines from the catalog in the request's language.
func (s *Server) loadCart(r *http.Request) (cart.Cart, error) {
	c := s.Carts.Load(r)
	if c.Empty() {
		return c, nil
	}
	err := c.Hydrate(r.Context(), s.cartLookup(langOf(r)))
	return c, err
}

func (s *Server) cartLookup(lang domain.Lang) cart.Lookup {
	return func(ctx context.Context, id uint) (cart.Item, error) {
		p, err := s.Catalog.Card(ctx, lang, id)
		if err != nil {
			return cart.Item{}, err
		}
		return cart.Item{
			ID:            p.ID,
			Slug:          p.Slug,
			Title:         p.Title,
			Price:         p.Price,
			Image:         p.Image,
			CategoryTitle: p.CategoryTitle,
		}, nil
	}
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "cart.html", nil)
}

func (s *Server) handleCartCheckout(w http.ResponseWriter, r *http.Request) {
	c, err := s.loadCart(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if c.Empty() {
		http.Redirect(w, r, "/"+string(langOf(r))+"/cart", http.StatusFound)
		return
	}
	http.Redirect(w, r, cart.CheckoutLink(c, langOf(r), s.BaseURL, s.WhatsApp), http.StatusFound)
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	id, err := formID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.Catalog.Card(r.Context(), langOf(r), id); err != nil {
		s.fail(w, r, err)
		return
	}
	c := s.Carts.Load(r)
	c.Add(cart.Item{ID: id})
	s.saveCart(w, r, c)
}

func (s *Server) handleCartDecrease(w http.ResponseWriter, r *http.Request) {
	s.mutateCart(w, r, func(c *cart.Cart, id uint) { c.Decrease(id) })
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	s.mutateCart(w, r, func(c *cart.Cart, id uint) { c.Remove(id) })
}

func (s *Server) handleCartClose(w http.ResponseWriter, r *http.Request) {
	c := s.Carts.Load(r)
	c.Open = false
	s.saveCart(w, r, c)
}

func (s *Server) mutateCart(w http.ResponseWriter, r *http.Request, fn func(*cart.Cart, uint)) {
	id, err := formID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c := s.Carts.Load(r)
	fn(&c, id)
	s.saveCart(w, r, c)
}

// saveCart writes the cookie and answers with JSON for scripted callers, otherwise a redirect back.
func (s *Server) saveCart(w http.ResponseWriter, r *http.Request, c cart.Cart) {
	if err := s.Carts.Save(w, c); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		if err := c.Hydrate(r.Context(), s.cartLookup(langOf(r))); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("cart hydrate")
			http.Error(w, "cart", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, cartSummary{
			Items:      c.Items,
			TotalItems: c.TotalItems(),
			TotalPrice: c.TotalPrice().StringFixed(2),
			Open:       c.Open,
		})
		return
	}
	back := r.PostFormValue("back")
	if back == "" && r.Referer() != "" {
		if ref, err := url.Parse(r.Referer()); err == nil {
			back = ref.RequestURI()
		}
	}
	http.Redirect(w, r, localPath(back, "/"+string(langOf(r))+"/cart"), http.StatusSeeOther)
}

func formID(r *http.Request) (uint, error) {
	if err := r.ParseForm(); err != nil {
		return 0, domain.ErrInvalid
	}
	n, err := strconv.ParseUint(strings.TrimSpace(r.PostFormValue("id")), 10, 64)
	if err != nil || n == 0 {
		return 0, domain.ErrInvalid
	}
	return uint(n), nil
}
