package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/arazdetector/mdbaku/internal/domain"
)

type productLangForm struct {
	Lang  domain.Lang
	Row   domain.ProductI18n
	Specs string
}

func productLangForms(rows []domain.ProductI18n) []productLangForm {
	out := make([]productLangForm, 0, 2)
	for _, l := range []domain.Lang{domain.LangRU, domain.LangAZ} {
		f := productLangForm{Lang: l, Row: domain.ProductI18n{Lang: l}}
		for _, r := range rows {
			if r.Lang == l {
				f.Row = r
			}
		}
		if len(f.Row.Specs) > 0 {
			b, _ := json.MarshalIndent(f.Row.Specs, "", "  ")
			f.Specs = string(b)
		}
		out = append(out, f)
	}
	return out
}

func productURL(id uint) string { return fmt.Sprintf("/admin/products/%d", id) }

func (s *Server) handleAdminProducts(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	page := queryInt(r, "page", 1)
	var catID *uint
	if n, err := strconv.ParseUint(r.URL.Query().Get("category"), 10, 64); err == nil && n > 0 {
		id := uint(n)
		catID = &id
	}
	res, err := s.Products.List(r.Context(), q, page, adminPageLimit, catID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cats, err := s.Categories.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	pages := int((res.TotalCount + adminPageLimit - 1) / adminPageLimit)
	s.renderAdmin(w, r, "admin_products.html", map[string]any{
		"Rows":       res.Rows,
		"Total":      res.TotalCount,
		"Query":      q,
		"CategoryID": catID,
		"Categories": cats,
		"Pager":      newPager(page, pages, pageBase(r)),
	})
}

func (s *Server) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.Products.Export(r.Context(), &buf); err != nil {
		s.fail(w, r, err)
		return
	}
	name := "products-" + s.Now().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleAdminProductNew(w http.ResponseWriter, r *http.Request) {
	cols, err := s.Products.ListCollections(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cats, err := s.Categories.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderAdmin(w, r, "admin_product_new.html", map[string]any{
		"Collections": cols,
		"Categories":  cats,
	})
}

func (s *Server) handleAdminProductCreate(w http.ResponseWriter, r *http.Request) {
	var in domain.ProductInput
	if err := decodeForm(r, &in); err != nil {
		s.done(w, r, "/admin/products/new", err)
		return
	}
	id, err := s.Products.Create(r.Context(), in)
	if err != nil {
		s.done(w, r, "/admin/products/new", err)
		return
	}
	http.Redirect(w, r, productURL(id), http.StatusSeeOther)
}

func (s *Server) handleAdminProduct(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.Products.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cats, err := s.Categories.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	selected := make(map[uint]bool, len(p.SelectedCollectionIDs))
	for _, cid := range p.SelectedCollectionIDs {
		selected[cid] = true
	}
	s.renderAdmin(w, r, "admin_product.html", map[string]any{
		"Edit":       p,
		"Product":    p.Product,
		"Langs":      productLangForms(p.I18n),
		"Categories": cats,
		"Selected":   selected,
	})
}

func (s *Server) handleAdminProductBase(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in domain.ProductInput
	if err = decodeForm(r, &in); err == nil {
		err = s.Products.UpdateBase(r.Context(), id, in)
	}
	s.done(w, r, productURL(id), err)
}

func (s *Server) handleAdminProductI18n(w http.ResponseWriter, r *http.Request) {
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
	var in domain.ProductI18nInput
	if err = decodeForm(r, &in); err == nil {
		err = s.Products.UpsertI18n(r.Context(), id, lang, in)
	}
	s.done(w, r, productURL(id), err)
}

func (s *Server) handleAdminProductCollections(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in struct {
		Collections []string `schema:"collections"`
	}
	if err = decodeForm(r, &in); err == nil {
		err = s.Products.SetCollections(r.Context(), id, in.Collections)
	}
	s.done(w, r, productURL(id), err)
}

// handleAdminProductMedia stores uploaded files, or registers an external URL (video embeds).
func (s *Server) handleAdminProductMedia(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.done(w, r, productURL(id), fmt.Errorf("%w: %v", domain.ErrInvalid, err))
		return
	}
	if link := strings.TrimSpace(r.FormValue("url")); link != "" {
		kind := domain.MediaImage
		if r.FormValue("kind") == string(domain.MediaVideo) {
			kind = domain.MediaVideo
		}
		_, err := s.Media.AddProductMedia(r.Context(), id, link, kind)
		s.done(w, r, productURL(id), err)
		return
	}
	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["files"]
	}
	if len(files) == 0 {
		s.done(w, r, productURL(id), fmt.Errorf("%w: no file", domain.ErrInvalid))
		return
	}
	for _, fh := range files {
		if err := s.uploadProductFile(r, id, fh); err != nil {
			s.done(w, r, productURL(id), err)
			return
		}
	}
	s.done(w, r, productURL(id), nil)
}

func (s *Server) uploadProductFile(r *http.Request, id uint, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = s.Media.UploadProductMedia(r.Context(), id, fh.Filename, fh.Header.Get("Content-Type"), f)
	return err
}

func (s *Server) handleAdminMediaDelete(w http.ResponseWriter, r *http.Request) {
	s.mediaAction(w, r, s.Media.DeleteProductMedia)
}

func (s *Server) handleAdminMediaMain(w http.ResponseWriter, r *http.Request) {
	s.mediaAction(w, r, s.Media.SetMainMedia)
}

func (s *Server) mediaAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, productID, mediaID uint) error) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	mediaID, err := paramID(r, "mediaID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.done(w, r, productURL(id), fn(r.Context(), id, mediaID))
}

func (s *Server) handleAdminProductToggle(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := paramID(r, "id")
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if active {
			err = s.Products.ToggleActive(r.Context(), id)
		} else {
			err = s.Products.ToggleStock(r.Context(), id)
		}
		s.done(w, r, localPath(r.FormValue("back"), productURL(id)), err)
	}
}

func (s *Server) handleAdminProductDelete(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.done(w, r, "/admin/products", s.Products.Delete(r.Context(), id))
}
