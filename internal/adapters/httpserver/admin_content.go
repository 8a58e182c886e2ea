package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/arazdetector/mdbaku/internal/domain"
)

func (s *Server) handleAdminCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Categories.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderAdmin(w, r, "admin_categories.html", map[string]any{"Rows": rows})
}

func (s *Server) handleAdminCategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	err := decodeForm(r, &in)
	if err == nil {
		_, err = s.Categories.Create(r.Context(), in)
	}
	s.done(w, r, "/admin/categories", err)
}

func (s *Server) handleAdminCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in domain.CategoryInput
	if err = decodeForm(r, &in); err == nil {
		err = s.Categories.Update(r.Context(), id, in)
	}
	s.done(w, r, "/admin/categories", err)
}

func (s *Server) handleAdminCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.done(w, r, "/admin/categories", s.Categories.Delete(r.Context(), id))
}

type postLangForm struct {
	Lang domain.Lang
	Row  domain.PostI18n
}

func postLangForms(rows []domain.PostI18n) []postLangForm {
	out := make([]postLangForm, 0, 2)
	for _, l := range []domain.Lang{domain.LangRU, domain.LangAZ} {
		f := postLangForm{Lang: l, Row: domain.PostI18n{Lang: l}}
		for _, r := range rows {
			if r.Lang == l {
				f.Row = r
			}
		}
		out = append(out, f)
	}
	return out
}

func postURL(id uint) string { return fmt.Sprintf("/admin/blog/%d", id) }

func (s *Server) handleAdminPosts(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	page := queryInt(r, "page", 1)
	res, err := s.Posts.List(r.Context(), q, page, adminPageLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	pages := int((res.TotalCount + adminPageLimit - 1) / adminPageLimit)
	s.renderAdmin(w, r, "admin_posts.html", map[string]any{
		"Rows":  res.Rows,
		"Total": res.TotalCount,
		"Query": q,
		"Pager": newPager(page, pages, pageBase(r)),
	})
}

func (s *Server) handleAdminPostNew(w http.ResponseWriter, r *http.Request) {
	// the form needs no data, but only editors may see it
	if _, err := s.Posts.Count(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderAdmin(w, r, "admin_post_new.html", nil)
}

func (s *Server) handleAdminPostCreate(w http.ResponseWriter, r *http.Request) {
	var in domain.PostCreateInput
	if err := decodeForm(r, &in); err != nil {
		s.done(w, r, "/admin/blog/new", err)
		return
	}
	id, err := s.Posts.Create(r.Context(), in)
	if err != nil {
		s.done(w, r, "/admin/blog/new", err)
		return
	}
	http.Redirect(w, r, postURL(id), http.StatusSeeOther)
}

func (s *Server) handleAdminPost(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.Posts.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderAdmin(w, r, "admin_post.html", map[string]any{
		"Post":  p.Post,
		"Langs": postLangForms(p.I18n),
	})
}

func (s *Server) handleAdminPostBase(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in domain.PostBaseInput
	if err = decodeForm(r, &in); err == nil {
		err = s.Posts.UpdateBase(r.Context(), id, in)
	}
	s.done(w, r, postURL(id), err)
}

func (s *Server) handleAdminPostI18n(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lang, ok := domain.ParseLang(chi.URLParam(r, "lang"))
	if !ok {
		s.fail(w, r, domain.ErrNotFound)
		return
	}
	var in domain.PostI18nInput
	if err = decodeForm(r, &in); err == nil {
		err = s.Posts.UpsertI18n(r.Context(), id, lang, in)
	}
	s.done(w, r, postURL(id), err)
}

func (s *Server) handleAdminPostCover(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		s.done(w, r, postURL(id), fmt.Errorf("%w: %v", domain.ErrInvalid, err))
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		s.done(w, r, postURL(id), fmt.Errorf("%w: no file", domain.ErrInvalid))
		return
	}
	defer f.Close()
	_, err = s.Media.UploadPostCover(r.Context(), id, fh.Filename, fh.Header.Get("Content-Type"), f)
	s.done(w, r, postURL(id), err)
}

func (s *Server) handleAdminPostCoverDelete(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.done(w, r, postURL(id), s.Media.DeletePostCover(r.Context(), id))
}

func (s *Server) handleAdminPostToggle(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.done(w, r, localPath(r.FormValue("back"), postURL(id)), s.Posts.ToggleActive(r.Context(), id))
}

func (s *Server) handleAdminPostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.done(w, r, "/admin/blog", s.Posts.Delete(r.Context(), id))
}
