package category

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/records"
)

// Record field names of the category entity.
const (
	fieldName    = "Name"
	fieldKey     = "id_c"
	fieldDisplay = "name_c"
	fieldIcon    = "icon_c"
)

var recordFields = records.Select(fieldName, fieldKey, fieldDisplay, fieldIcon)

// decode builds a Category from a record. The display name is name_c, else
// Name.
func decode(data []byte) (Category, error) {
	var (
		c       Category
		name    string
		display string
	)
	err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case records.FieldID:
			if d.Next() != jx.Number {
				return d.Skip()
			}
			c.ID, err = d.Int64()
		case fieldName:
			name, err = str(d)
		case fieldKey:
			c.Key, err = str(d)
		case fieldDisplay:
			display, err = str(d)
		case fieldIcon:
			c.Icon, err = str(d)
		default:
			return d.Skip()
		}
		return err
	})
	if err != nil {
		return Category{}, errors.Wrap(err, "decode category record")
	}

	c.Name = display
	if c.Name == "" {
		c.Name = name
	}
	return overlay(c, name), nil
}

func str(d *jx.Decoder) (string, error) {
	if d.Next() != jx.String {
		return "", d.Skip()
	}
	return d.Str()
}
