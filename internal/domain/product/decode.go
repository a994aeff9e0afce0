package product

import (
	"math"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Record field names of the product entity.
const (
	fieldID                 = "Id"
	fieldName               = "Name"
	fieldTitle              = "title_c"
	fieldPrice              = "price_c"
	fieldSalePrice          = "sale_price_c"
	fieldImage              = "image_c"
	fieldCategory           = "category_c"
	fieldSubcategory        = "subcategory_c"
	fieldDescription        = "description_c"
	fieldSizeRecommendation = "size_recommendation_c"
	fieldInStock            = "in_stock_c"
	fieldStockLevel         = "stock_level_c"
	fieldSizeStock          = "size_stock_c"
)

// DecodeRaw decodes one product record. Fields of an unexpected type are left
// at their zero value; only syntactically broken JSON is an error.
func DecodeRaw(data []byte) (RawProduct, error) {
	var p RawProduct
	err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case fieldID:
			p.ID, err = readInt(d)
		case fieldName:
			p.Name, err = readString(d)
		case fieldTitle:
			p.Title, err = readString(d)
		case fieldPrice:
			var price decimal.NullDecimal
			price, err = readDecimal(d)
			p.Price = price.Decimal
		case fieldSalePrice:
			p.SalePrice, err = readDecimal(d)
		case fieldImage:
			p.Image, err = readString(d)
		case fieldCategory:
			p.Category, err = readCategoryRef(d)
		case fieldSubcategory:
			p.Subcategory, err = readString(d)
		case fieldDescription:
			p.Description, err = readString(d)
		case fieldSizeRecommendation:
			p.SizeRecommendation, err = readString(d)
		case fieldInStock:
			p.InStock, err = readBool(d)
		case fieldStockLevel:
			var level int64
			level, err = readInt(d)
			p.StockLevel = int(level)
		case fieldSizeStock:
			p.SizeStock, err = decodeSizeStockField(d)
		default:
			return d.Skip()
		}
		return err
	})
	if err != nil {
		return RawProduct{}, errors.Wrap(err, "decode product record")
	}
	return p, nil
}

// readCategoryRef accepts an embedded {"Id","Name"} object, a bare id or a
// bare name.
func readCategoryRef(d *jx.Decoder) (CategoryRef, error) {
	var ref CategoryRef
	switch d.Next() {
	case jx.Object:
		err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case fieldID:
				ref.ID, err = readInt(d)
			case fieldName:
				ref.Name, err = readString(d)
			default:
				return d.Skip()
			}
			return err
		})
		return ref, err
	case jx.Number:
		id, err := readInt(d)
		ref.ID = id
		return ref, err
	case jx.String:
		name, err := d.Str()
		ref.Name = name
		return ref, err
	default:
		return ref, d.Skip()
	}
}

func readString(d *jx.Decoder) (string, error) {
	if d.Next() != jx.String {
		return "", d.Skip()
	}
	return d.Str()
}

// readInt reads a number, truncating fractions and clamping values outside
// the int64 range.
func readInt(d *jx.Decoder) (int64, error) {
	if d.Next() != jx.Number {
		return 0, d.Skip()
	}
	n, err := d.Num()
	if err != nil {
		return 0, err
	}
	if n.IsInt() {
		if v, err := n.Int64(); err == nil {
			return v, nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64, nil
	case f <= math.MinInt64:
		return math.MinInt64, nil
	default:
		return int64(f), nil
	}
}

func readBool(d *jx.Decoder) (bool, error) {
	switch d.Next() {
	case jx.Bool:
		return d.Bool()
	case jx.Number:
		n, err := readInt(d)
		return n != 0, err
	default:
		return false, d.Skip()
	}
}

func readDecimal(d *jx.Decoder) (decimal.NullDecimal, error) {
	if d.Next() != jx.Number {
		return decimal.NullDecimal{}, d.Skip()
	}
	n, err := d.Num()
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	v, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.NullDecimal{}, nil
	}
	return decimal.NewNullDecimal(v), nil
}
