package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/category"
	"github.com/xenking/storefront/internal/domain/product"
)

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(msg)
		e.ObjEnd()
	})
}

func encodeDecimal(e *jx.Encoder, d decimal.Decimal) {
	e.RawStr(d.String())
}

func encodeNullDecimal(e *jx.Encoder, d decimal.NullDecimal) {
	if !d.Valid {
		e.Null()
		return
	}
	encodeDecimal(e, d.Decimal)
}

func encodeStrings(e *jx.Encoder, ss []string) {
	e.ArrStart()
	for _, s := range ss {
		e.Str(s)
	}
	e.ArrEnd()
}

func encodeSizeStock(e *jx.Encoder, m map[string]int) {
	e.ObjStart()
	for size, n := range m {
		e.FieldStart(size)
		e.Int(n)
	}
	e.ObjEnd()
}

// encodeProduct writes the record field names next to their camelCase
// aliases. Both carry the same values.
func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()

	e.FieldStart("Id")
	e.Int64(p.ID)
	e.FieldStart("id")
	e.Int64(p.ID)
	e.FieldStart("Name")
	e.Str(p.Name)

	e.FieldStart("title_c")
	e.Str(p.Title)
	e.FieldStart("title")
	e.Str(p.Title)

	e.FieldStart("price_c")
	encodeDecimal(e, p.Price)
	e.FieldStart("price")
	encodeDecimal(e, p.Price)
	e.FieldStart("sale_price_c")
	encodeNullDecimal(e, p.SalePrice)
	e.FieldStart("salePrice")
	encodeNullDecimal(e, p.SalePrice)

	e.FieldStart("image_c")
	e.Str(p.Image)
	e.FieldStart("image")
	e.Str(p.Image)
	e.FieldStart("images")
	encodeStrings(e, p.Images)

	e.FieldStart("category_c")
	e.ObjStart()
	e.FieldStart("Id")
	e.Int64(p.CategoryID)
	e.FieldStart("Name")
	e.Str(p.Category)
	e.ObjEnd()
	e.FieldStart("category")
	e.Str(p.Category)

	e.FieldStart("subcategory_c")
	e.Str(p.Subcategory)
	e.FieldStart("subcategory")
	e.Str(p.Subcategory)

	e.FieldStart("description_c")
	e.Str(p.Description)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("fullDescription")
	e.Str(p.FullDescription)

	e.FieldStart("size_recommendation_c")
	e.Str(p.SizeRecommendation)
	e.FieldStart("sizeRecommendation")
	e.Str(p.SizeRecommendation)

	e.FieldStart("in_stock_c")
	e.Bool(p.InStock)
	e.FieldStart("inStock")
	e.Bool(p.InStock)
	e.FieldStart("stock_level_c")
	e.Int(p.StockLevel)
	e.FieldStart("stockLevel")
	e.Int(p.StockLevel)
	e.FieldStart("stockStatus")
	e.Str(string(p.StockStatus))

	e.FieldStart("size_stock_c")
	encodeSizeStock(e, p.SizeStock)
	e.FieldStart("sizeStock")
	encodeSizeStock(e, p.SizeStock)

	if p.Sizes != nil {
		e.FieldStart("sizes")
		encodeStrings(e, p.Sizes)
	}
	e.FieldStart("ageRange")
	e.Str(p.AgeRange)

	e.ObjEnd()
}

func encodeProducts(e *jx.Encoder, products []product.Product) {
	e.ArrStart()
	for _, p := range products {
		encodeProduct(e, p)
	}
	e.ArrEnd()
}

func encodeDetail(e *jx.Encoder, d *product.Detail) {
	e.ObjStart()
	e.FieldStart("product")
	encodeProduct(e, d.Product)
	e.FieldStart("related")
	encodeProducts(e, d.Related)
	e.FieldStart("complementary")
	encodeProducts(e, d.Complementary)
	e.ObjEnd()
}

func encodeSubcategory(e *jx.Encoder, s category.Subcategory) {
	e.ObjStart()
	e.FieldStart("Id")
	e.Int64(s.ID)
	e.FieldStart("id_c")
	e.Str(s.Key)
	e.FieldStart("id")
	e.Str(s.Key)
	e.FieldStart("name_c")
	e.Str(s.Name)
	e.FieldStart("name")
	e.Str(s.Name)
	e.FieldStart("icon_c")
	e.Str(s.Icon)
	e.FieldStart("icon")
	e.Str(s.Icon)
	e.ObjEnd()
}

func encodeSubcategories(e *jx.Encoder, subs []category.Subcategory) {
	e.ArrStart()
	for _, s := range subs {
		encodeSubcategory(e, s)
	}
	e.ArrEnd()
}

func encodeCategory(e *jx.Encoder, c category.Category) {
	e.ObjStart()
	e.FieldStart("Id")
	e.Int64(c.ID)
	e.FieldStart("id_c")
	e.Str(c.Key)
	e.FieldStart("id")
	e.Str(c.Key)
	e.FieldStart("name_c")
	e.Str(c.Name)
	e.FieldStart("name")
	e.Str(c.Name)
	e.FieldStart("icon_c")
	e.Str(c.Icon)
	e.FieldStart("icon")
	e.Str(c.Icon)
	e.FieldStart("subcategories")
	encodeSubcategories(e, c.Subcategories)
	e.ObjEnd()
}

func encodeCart(e *jx.Encoder, c cart.Cart) {
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, li := range c.Items {
		e.ObjStart()
		e.FieldStart("productId")
		e.Int64(li.ProductID)
		e.FieldStart("title")
		e.Str(li.Title)
		e.FieldStart("price")
		encodeDecimal(e, li.Price)
		e.FieldStart("salePrice")
		encodeNullDecimal(e, li.SalePrice)
		e.FieldStart("image")
		e.Str(li.Image)
		e.FieldStart("category")
		e.Str(li.Category)
		e.FieldStart("stockStatus")
		e.Str(string(li.StockStatus))
		e.FieldStart("quantity")
		e.Int(li.Quantity)
		e.FieldStart("total")
		encodeDecimal(e, li.Total())
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("totalItems")
	e.Int(c.TotalItems)
	e.FieldStart("subtotal")
	encodeDecimal(e, c.Subtotal)
	e.ObjEnd()
}
