package product

// StockStatus is the three-state availability shown on product cards.
type StockStatus string

const (
	InStock    StockStatus = "in-stock"
	LowStock   StockStatus = "low-stock"
	OutOfStock StockStatus = "out-of-stock"
)

// LowStockThreshold is the highest level still reported as low stock.
const LowStockThreshold = 5

// Classify derives the stock status from a stock level. Negative levels are
// reported as out of stock.
func Classify(level int) StockStatus {
	switch {
	case level > LowStockThreshold:
		return InStock
	case level > 0:
		return LowStock
	default:
		return OutOfStock
	}
}
