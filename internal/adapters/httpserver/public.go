package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/shopspring/decimal"

	"github.com/arazdetector/mdbaku/internal/domain"
	"github.com/arazdetector/mdbaku/internal/i18n"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	h, err := s.Catalog.Home(r.Context(), langOf(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "home.html", map[string]any{
		"Nav":   h.Nav,
		"Rails": h.Rails,
		"Posts": h.Posts,
	})
}

// catalogFilter reads the listing query; malformed numbers are ignored.
func catalogFilter(q url.Values) domain.CatalogFilter {
	f := domain.CatalogFilter{
		Category: strings.TrimSpace(q.Get("category")),
		InStock:  q.Get("stock") == "1",
		Search:   strings.TrimSpace(q.Get("q")),
		Sort:     domain.ParseSortMode(q.Get("sort")),
		Page:     1,
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(q.Get("min"))); err == nil {
		f.MinPrice = &d
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(q.Get("max"))); err == nil {
		f.MaxPrice = &d
	}
	return f
}

// pageBase is the current URL without its page parameter, ready for "page=N".
func pageBase(r *http.Request) string {
	q := r.URL.Query()
	q.Del("page")
	if enc := q.Encode(); enc != "" {
		return r.URL.Path + "?" + enc + "&"
	}
	return r.URL.Path + "?"
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	f := catalogFilter(r.URL.Query())
	f.Page = queryInt(r, "page", 1)
	res, err := s.Catalog.Catalog(r.Context(), langOf(r), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "products.html", map[string]any{
		"Products": res.Rows,
		"Total":    res.TotalCount,
		"Filter":   f,
		"Min":      r.URL.Query().Get("min"),
		"Max":      r.URL.Query().Get("max"),
		"Sorts":    []domain.SortMode{domain.SortPopular, domain.SortNew, domain.SortPriceAsc, domain.SortPriceDesc},
		"Pager":    newPager(res.Page, res.TotalPages(), pageBase(r)),
	})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.Catalog.ProductBySlug(r.Context(), langOf(r), chi.URLParam(r, "slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "product.html", map[string]any{
		"Product": p,
		"Title":   firstNonEmpty(p.SeoTitle, p.Title),
		"Desc":    p.SeoDesc,
	})
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	res, err := s.Blog.Posts(r.Context(), langOf(r), queryInt(r, "page", 1))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "blog.html", map[string]any{
		"Posts": res.Rows,
		"Pager": newPager(res.Page, res.TotalPages(), pageBase(r)),
	})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	p, err := s.Blog.PostBySlug(r.Context(), langOf(r), chi.URLParam(r, "slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "post.html", map[string]any{
		"Post":  p,
		"Title": firstNonEmpty(p.SeoTitle, p.Title),
		"Desc":  firstNonEmpty(p.SeoDesc, p.Excerpt),
	})
}

func (s *Server) handleStatic(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, "page.html", map[string]any{"Page": page})
	}
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "contacts.html", map[string]any{"Sent": r.URL.Query().Get("sent") == "1"})
}

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactRequest
	err := decodeForm(r, &req)
	if err == nil {
		err = s.Contact.Submit(r.Context(), req)
	}
	if err == nil {
		http.Redirect(w, r, "/"+string(langOf(r))+"/contacts?sent=1", http.StatusSeeOther)
		return
	}
	status, msg := http.StatusBadGateway, "contacts.error"
	if errors.Is(err, domain.ErrInvalid) {
		status, msg = http.StatusBadRequest, "contacts.invalid"
	} else {
		hlog.FromRequest(r).Error().Err(err).Msg("contact submit")
	}
	s.render(w, r, status, "contacts.html", map[string]any{
		"Form":  req,
		"Error": i18n.T(langOf(r), msg),
	})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
