// Package cart holds the customer's shopping cart. The cart lives in a signed cookie
// that carries only product ids and quantities; nothing is stored server-side.
package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/arazdetector/mdbaku/internal/domain"
)

type Item struct {
	ID            uint            `json:"id"`
	Slug          string          `json:"slug"`
	Title         string          `json:"title"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image,omitempty"`
	CategoryTitle string          `json:"cat,omitempty"`
	Quantity      int             `json:"qty"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	Items []Item `json:"items"`
	Open  bool   `json:"open"`
}

// Add increments the quantity of an existing line or appends a new one and opens the drawer.
func (c *Cart) Add(it Item) {
	for i := range c.Items {
		if c.Items[i].ID == it.ID {
			c.Items[i].Quantity++
			return
		}
	}
	it.Quantity = 1
	c.Items = append(c.Items, it)
	c.Open = true
}

// Decrease lowers the quantity by one; a line reaching zero is removed.
func (c *Cart) Decrease(id uint) {
	for i := range c.Items {
		if c.Items[i].ID != id {
			continue
		}
		c.Items[i].Quantity--
		if c.Items[i].Quantity <= 0 {
			c.Remove(id)
		}
		return
	}
}

func (c *Cart) Remove(id uint) {
	out := c.Items[:0]
	for _, it := range c.Items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	c.Items = out
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

func (c *Cart) Empty() bool { return len(c.Items) == 0 }

// Lookup resolves a product id into a cart line with current title, price and image.
type Lookup func(ctx context.Context, id uint) (Item, error)

// Hydrate replaces every line with its current catalog data, keeping the quantity.
// Lines whose product is gone or hidden are dropped.
func (c *Cart) Hydrate(ctx context.Context, lookup Lookup) error {
	out := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		full, err := lookup(ctx, it.ID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		full.ID = it.ID
		full.Quantity = it.Quantity
		out = append(out, full)
	}
	c.Items = out
	return nil
}
