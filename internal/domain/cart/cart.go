// Package cart implements the shopping cart store: one cart per process,
// mirrored to scoped storage on every mutation.
package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

// DefaultKey is the storage key the cart is persisted under.
const DefaultKey = "cart"

// MaxQuantity is the largest quantity a line holds. Larger quantities, from
// merging or updates, are capped.
const MaxQuantity = 99

// Storage is the scoped key-value storage the cart persists to.
type Storage interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// LineItem is one product in the cart. Display fields are copied from the
// product when it is added.
type LineItem struct {
	ProductID   int64
	Title       string
	Price       decimal.Decimal
	SalePrice   decimal.NullDecimal
	Image       string
	Category    string
	StockStatus product.StockStatus
	Quantity    int
}

// ItemFromProduct builds a line item for p with the given quantity.
func ItemFromProduct(p product.Product, quantity int) LineItem {
	return LineItem{
		ProductID:   p.ID,
		Title:       p.Title,
		Price:       p.Price,
		SalePrice:   p.SalePrice,
		Image:       p.Image,
		Category:    p.Category,
		StockStatus: p.StockStatus,
		Quantity:    quantity,
	}
}

// UnitPrice is the sale price when set, else the base price.
func (li LineItem) UnitPrice() decimal.Decimal {
	if li.SalePrice.Valid {
		return li.SalePrice.Decimal
	}
	return li.Price
}

// Total is the unit price times the quantity.
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice().Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is a point-in-time view of the store.
type Cart struct {
	Items      []LineItem
	TotalItems int
	Subtotal   decimal.Decimal
}

func totalItems(items []LineItem) int {
	var n int
	for _, li := range items {
		n += li.Quantity
	}
	return n
}

func subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.Total())
	}
	return sum
}
