package product

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist or could
// not be fetched.
var ErrNotFound = errors.New("product not found")

// Category names with dedicated normalization rules.
const (
	CategoryKidsClothing = "Kids Clothing"
	CategoryToys         = "Toys"
)

// CategoryRef is the lookup reference a product record carries to its
// category. Either part may be empty depending on how the record was fetched.
type CategoryRef struct {
	ID   int64
	Name string
}

// RawProduct is a product record as stored by the data service.
type RawProduct struct {
	ID                 int64
	Name               string
	Title              string
	Price              decimal.Decimal
	SalePrice          decimal.NullDecimal
	Image              string
	Category           CategoryRef
	Subcategory        string
	Description        string
	SizeRecommendation string
	InStock            bool
	StockLevel         int
	SizeStock          SizeStockField
}

// Product is the normalized view of a product record.
type Product struct {
	ID                 int64
	Name               string
	Title              string
	Price              decimal.Decimal
	SalePrice          decimal.NullDecimal
	Image              string
	CategoryID         int64
	Category           string
	Subcategory        string
	Description        string
	SizeRecommendation string
	InStock            bool
	StockLevel         int
	SizeStock          map[string]int

	StockStatus     StockStatus
	Images          []string
	FullDescription string
	// Sizes is nil for categories without size options.
	Sizes    []string
	AgeRange string
}

// EffectivePrice is the sale price when one is set, else the base price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.Valid {
		return p.SalePrice.Decimal
	}
	return p.Price
}

// Detail is everything a product page shows.
type Detail struct {
	Product       Product
	Related       []Product
	Complementary []Product
}
