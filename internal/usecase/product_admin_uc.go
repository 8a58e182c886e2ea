package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/arazdetector/mdbaku/internal/domain"
)

type ProductAdminUC struct {
	Guard       *Guard
	Products    domain.ProductRepo
	Categories  domain.CategoryRepo
	Collections domain.CollectionRepo
	Storage     domain.FileStorage
	Cache       domain.Revalidator
}

func (uc *ProductAdminUC) List(ctx context.Context, q string, page, limit int, categoryID *uint) (domain.AdminProductList, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return domain.AdminProductList{}, err
	}
	return uc.Products.AdminList(ctx, q, page, limit, categoryID)
}

func (uc *ProductAdminUC) Get(ctx context.Context, id uint) (*domain.ProductEdit, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return nil, err
	}
	return uc.Products.AdminGet(ctx, id)
}

func (uc *ProductAdminUC) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return nil, err
	}
	return uc.Collections.List(ctx)
}

func (uc *ProductAdminUC) Count(ctx context.Context) (int64, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return 0, err
	}
	return uc.Products.Count(ctx)
}

// Create inserts a product with its ru/az titles and collection memberships and returns its id.
func (uc *ProductAdminUC) Create(ctx context.Context, in domain.ProductInput) (uint, error) {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return 0, err
	}
	if err := check(in); err != nil {
		return 0, err
	}
	titleRU, titleAZ := strings.TrimSpace(in.TitleRU), strings.TrimSpace(in.TitleAZ)
	if titleRU == "" && titleAZ == "" {
		return 0, invalid("title is required")
	}
	p := domain.Product{Currency: domain.DefaultCurrency, IsActive: in.IsActive, InStock: in.InStock}
	if err := applyProductInput(&p, in); err != nil {
		return 0, err
	}
	base := domain.Slugify(in.Slug)
	if base == "" {
		base = domain.SlugOr(domain.Slugify(firstNonEmpty(titleRU, titleAZ)), "product")
	}
	slug, err := uniqueSlug(ctx, uc.Products.SlugExists, base, 0)
	if err != nil {
		return 0, err
	}
	p.Slug = slug

	var tr []domain.ProductI18n
	if titleRU != "" {
		tr = append(tr, domain.ProductI18n{Lang: domain.LangRU, Title: titleRU})
	}
	if titleAZ != "" {
		tr = append(tr, domain.ProductI18n{Lang: domain.LangAZ, Title: titleAZ})
	}
	colIDs, err := uc.Collections.IDsByKeys(ctx, in.Collections)
	if err != nil {
		return 0, err
	}
	if err := uc.Products.Create(ctx, &p, tr, colIDs); err != nil {
		return 0, err
	}
	log.Info().Uint("id", p.ID).Str("slug", p.Slug).Msg("product created")
	revalidate(uc.Cache, productKeys...)
	return p.ID, nil
}

// UpdateBase rewrites the non-translated product fields.
func (uc *ProductAdminUC) UpdateBase(ctx context.Context, id uint, in domain.ProductInput) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	if err := check(in); err != nil {
		return err
	}
	p := domain.Product{ID: id, IsActive: in.IsActive, InStock: in.InStock}
	if err := applyProductInput(&p, in); err != nil {
		return err
	}
	base := domain.Slugify(in.Slug)
	if base == "" {
		base = domain.SlugOr(domain.Slugify(firstNonEmpty(in.TitleRU, in.TitleAZ)), "product")
	}
	slug, err := uniqueSlug(ctx, uc.Products.SlugExists, base, id)
	if err != nil {
		return err
	}
	p.Slug = slug
	if err := uc.Products.UpdateBase(ctx, &p); err != nil {
		return err
	}
	revalidate(uc.Cache, productKeys...)
	return nil
}

// applyProductInput coerces the numeric form fields: empty price is 0, empty old price is null.
func applyProductInput(p *domain.Product, in domain.ProductInput) error {
	p.Price = decimal.Zero
	if s := strings.TrimSpace(in.Price); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil || d.IsNegative() {
			return invalid("price")
		}
		p.Price = d
	}
	p.OldPrice = decimal.NullDecimal{}
	if s := strings.TrimSpace(in.OldPrice); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil || d.IsNegative() {
			return invalid("old_price")
		}
		p.OldPrice = decimal.NewNullDecimal(d)
	}
	p.Popularity = 0
	if s := strings.TrimSpace(in.Popularity); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return invalid("popularity")
		}
		p.Popularity = n
	}
	p.CategoryID = nil
	if s := strings.TrimSpace(in.CategoryID); s != "" && s != "0" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return invalid("category_id")
		}
		id := uint(n)
		p.CategoryID = &id
	}
	p.Badge = optional(in.Badge)
	return nil
}

func (uc *ProductAdminUC) UpsertI18n(ctx context.Context, id uint, lang domain.Lang, in domain.ProductI18nInput) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := check(in); err != nil {
		return err
	}
	row := domain.ProductI18n{
		ProductID:   id,
		Lang:        lang,
		Title:       in.Title,
		Description: optional(in.Description),
		Specs:       parseSpecs(in.Specs),
		SeoTitle:    optional(in.SeoTitle),
		SeoDesc:     optional(in.SeoDesc),
	}
	if err := uc.Products.UpsertI18n(ctx, &row); err != nil {
		return err
	}
	revalidate(uc.Cache, productKeys...)
	return nil
}

// parseSpecs reads a JSON object of spec name to value; anything else yields nil.
func parseSpecs(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var generic map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		log.Warn().Err(err).Msg("specs json ignored")
		return nil
	}
	specs := make(map[string]string, len(generic))
	for k, v := range generic {
		switch t := v.(type) {
		case string:
			specs[k] = t
		case nil:
		default:
			specs[k] = fmt.Sprint(t)
		}
	}
	return specs
}

func (uc *ProductAdminUC) SetCollections(ctx context.Context, id uint, keys []string) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	ids, err := uc.Collections.IDsByKeys(ctx, keys)
	if err != nil {
		return err
	}
	if err := uc.Products.SetCollections(ctx, id, ids); err != nil {
		return err
	}
	revalidate(uc.Cache, productKeys...)
	return nil
}

func (uc *ProductAdminUC) ToggleActive(ctx context.Context, id uint) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	if err := uc.Products.ToggleActive(ctx, id); err != nil {
		return err
	}
	revalidate(uc.Cache, productKeys...)
	return nil
}

func (uc *ProductAdminUC) ToggleStock(ctx context.Context, id uint) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	if err := uc.Products.ToggleStock(ctx, id); err != nil {
		return err
	}
	revalidate(uc.Cache, productKeys...)
	return nil
}

// Delete purges the product's storage folder (best effort) and then the product rows.
func (uc *ProductAdminUC) Delete(ctx context.Context, id uint) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	folder := strconv.FormatUint(uint64(id), 10)
	if uc.Storage != nil {
		paths, err := uc.Storage.List(ctx, domain.BucketProducts, folder)
		if err != nil {
			log.Warn().Err(err).Str("folder", folder).Msg("list product media failed")
		} else if len(paths) > 0 {
			if err := uc.Storage.Remove(ctx, domain.BucketProducts, paths...); err != nil {
				log.Warn().Err(err).Str("folder", folder).Msg("purge product media failed")
			}
		}
	}
	if err := uc.Products.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Uint("id", id).Msg("product deleted")
	revalidate(uc.Cache, productKeys...)
	return nil
}

var exportHeader = []any{"ID", "Slug", "Title RU", "Title AZ", "Category", "Price", "Old price", "Currency", "In stock", "Active", "Popularity"}

// Export writes every product as an XLSX sheet.
func (uc *ProductAdminUC) Export(ctx context.Context, w io.Writer) error {
	if _, err := uc.Guard.Require(ctx); err != nil {
		return err
	}
	rows, err := uc.Products.All(ctx)
	if err != nil {
		return err
	}
	cats, err := uc.Categories.AdminList(ctx)
	if err != nil {
		return err
	}
	catTitle := make(map[uint]string, len(cats))
	for _, c := range cats {
		catTitle[c.ID] = firstNonEmpty(c.TitleRU, c.TitleAZ, c.Slug)
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Products"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return err
	}
	for i, r := range rows {
		cat := ""
		if r.CategoryID != nil {
			cat = catTitle[*r.CategoryID]
		}
		old := ""
		if r.OldPrice.Valid {
			old = r.OldPrice.Decimal.StringFixed(2)
		}
		price, _ := r.Price.Float64()
		line := []any{r.ID, r.Slug, r.TitleRU, r.TitleAZ, cat, price, old, r.Currency, yesNo(r.InStock), yesNo(r.IsActive), r.Popularity}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return err
		}
	}
	_, err = f.WriteTo(w)
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
