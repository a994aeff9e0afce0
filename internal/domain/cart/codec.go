package cart

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

// Encode serializes line items as a JSON array.
func Encode(items []LineItem) []byte {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.ArrStart()
	for _, li := range items {
		encodeItem(e, li)
	}
	e.ArrEnd()
	return append([]byte(nil), e.Bytes()...)
}

func encodeItem(e *jx.Encoder, li LineItem) {
	e.ObjStart()
	e.FieldStart("productId")
	e.Int64(li.ProductID)
	e.FieldStart("title")
	e.Str(li.Title)
	e.FieldStart("price")
	e.RawStr(li.Price.String())
	if li.SalePrice.Valid {
		e.FieldStart("salePrice")
		e.RawStr(li.SalePrice.Decimal.String())
	}
	e.FieldStart("image")
	e.Str(li.Image)
	e.FieldStart("category")
	e.Str(li.Category)
	e.FieldStart("stockStatus")
	e.Str(string(li.StockStatus))
	e.FieldStart("quantity")
	e.Int(li.Quantity)
	e.ObjEnd()
}

// Decode parses line items written by Encode. Lines without a product id or
// with a quantity below one are dropped; repeated ids are merged.
func Decode(data []byte) ([]LineItem, error) {
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Array {
		return nil, errors.New("cart is not an array")
	}

	var items []LineItem
	err := d.Arr(func(d *jx.Decoder) error {
		li, err := decodeItem(d)
		if err != nil {
			return err
		}
		if li.ProductID <= 0 || li.Quantity < 1 {
			return nil
		}
		items = merge(items, li)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	return items, nil
}

func decodeItem(d *jx.Decoder) (LineItem, error) {
	var li LineItem
	if d.Next() != jx.Object {
		return li, d.Skip()
	}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			n, err := num(d)
			li.ProductID = n.IntPart()
			return err
		case "quantity":
			n, err := num(d)
			li.Quantity = int(n.IntPart())
			return err
		case "price":
			n, err := num(d)
			li.Price = n
			return err
		case "salePrice":
			if d.Next() != jx.Number {
				return d.Skip()
			}
			n, err := num(d)
			li.SalePrice = decimal.NewNullDecimal(n)
			return err
		case "title":
			return str(d, &li.Title)
		case "image":
			return str(d, &li.Image)
		case "category":
			return str(d, &li.Category)
		case "stockStatus":
			var s string
			err := str(d, &s)
			li.StockStatus = product.StockStatus(s)
			return err
		default:
			return d.Skip()
		}
	})
	return li, err
}

func num(d *jx.Decoder) (decimal.Decimal, error) {
	if d.Next() != jx.Number {
		return decimal.Zero, d.Skip()
	}
	n, err := d.Num()
	if err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, nil
	}
	return v, nil
}

func str(d *jx.Decoder, dst *string) error {
	if d.Next() != jx.String {
		return d.Skip()
	}
	v, err := d.Str()
	*dst = v
	return err
}
