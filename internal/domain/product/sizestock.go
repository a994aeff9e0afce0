package product

import (
	"maps"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

var errSizeStockShape = errors.New("size stock is not an object")

// SizeStockKind tells which shape the size_stock_c field arrived in.
type SizeStockKind uint8

const (
	SizeStockAbsent SizeStockKind = iota
	SizeStockText
	SizeStockObject
	SizeStockOther
)

// SizeStockField is the per-size stock payload as received. The data service
// stores it either as serialized JSON text or as an object.
type SizeStockField struct {
	Kind   SizeStockKind
	Text   string
	Object map[string]int
}

// SizeStockFromText wraps a serialized size stock payload.
func SizeStockFromText(s string) SizeStockField {
	return SizeStockField{Kind: SizeStockText, Text: s}
}

// SizeStockFromMap wraps an already structured size stock payload.
func SizeStockFromMap(m map[string]int) SizeStockField {
	return SizeStockField{Kind: SizeStockObject, Object: m}
}

// Map resolves the payload into a size to quantity mapping. It never fails:
// text that does not hold a JSON object and any other shape yield an empty
// mapping.
func (f SizeStockField) Map() map[string]int {
	switch f.Kind {
	case SizeStockObject:
		out := make(map[string]int, len(f.Object))
		maps.Copy(out, f.Object)
		return out
	case SizeStockText:
		m, err := decodeSizeStock(jx.DecodeStr(f.Text))
		if err != nil {
			return map[string]int{}
		}
		return m
	default:
		return map[string]int{}
	}
}

// decodeSizeStockField reads the raw field without interpreting text content.
func decodeSizeStockField(d *jx.Decoder) (SizeStockField, error) {
	switch d.Next() {
	case jx.Null:
		return SizeStockField{}, d.Null()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return SizeStockField{}, err
		}
		if s == "" {
			return SizeStockField{}, nil
		}
		return SizeStockFromText(s), nil
	case jx.Object:
		m, err := decodeSizeStock(d)
		if err != nil {
			return SizeStockField{}, err
		}
		return SizeStockFromMap(m), nil
	default:
		return SizeStockField{Kind: SizeStockOther}, d.Skip()
	}
}

// decodeSizeStock reads a JSON object of size to quantity. Entries whose
// value is not a number are dropped.
func decodeSizeStock(d *jx.Decoder) (map[string]int, error) {
	if d.Next() != jx.Object {
		return nil, errSizeStockShape
	}
	out := map[string]int{}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if d.Next() != jx.Number {
			return d.Skip()
		}
		n, err := readInt(d)
		if err != nil {
			return err
		}
		out[key] = int(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
