package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/records"
)

// reference is a lookup field pointing at a record of another table. It is
// rendered as {"Id","Name"} and compared by id for numeric values and by name
// otherwise.
type reference struct {
	key  string // foreign key column
	id   string // referenced primary key
	name string // referenced display name
}

// table maps the fields of an entity to SQL expressions.
type table struct {
	from    string
	columns map[string]string
	refs    map[string]reference
}

const categoryDisplayName = "COALESCE(NULLIF(c.name_c, ''), c.name)"

var tables = map[string]table{
	records.EntityProduct: {
		from: "product_c p LEFT JOIN category_c c ON c.id = p.category_c",
		columns: map[string]string{
			records.FieldID:         "p.id",
			"Name":                  "p.name",
			"title_c":               "p.title_c",
			"price_c":               "p.price_c",
			"sale_price_c":          "p.sale_price_c",
			"image_c":               "p.image_c",
			"subcategory_c":         "p.subcategory_c",
			"description_c":         "p.description_c",
			"size_recommendation_c": "p.size_recommendation_c",
			"in_stock_c":            "p.in_stock_c",
			"stock_level_c":         "p.stock_level_c",
			"size_stock_c":          "p.size_stock_c",
		},
		refs: map[string]reference{
			"category_c": {key: "p.category_c", id: "c.id", name: categoryDisplayName},
		},
	},
	records.EntityCategory: {
		from: "category_c c",
		columns: map[string]string{
			records.FieldID: "c.id",
			"Name":          "c.name",
			"id_c":          "c.id_c",
			"name_c":        "c.name_c",
			"icon_c":        "c.icon_c",
		},
	},
}

// statement accumulates SQL text and positional arguments.
type statement struct {
	t    table
	sb   strings.Builder
	args []any
}

func (s *statement) arg(v any) string {
	s.args = append(s.args, v)
	return "$" + strconv.Itoa(len(s.args))
}

// buildSelect renders q as a query returning one jsonb object per record.
func buildSelect(entity string, q records.Query) (string, []any, error) {
	t, ok := tables[entity]
	if !ok {
		return "", nil, errors.Wrap(records.ErrUnknownEntity, entity)
	}
	s := &statement{t: t}

	obj, err := s.object(q.Fields)
	if err != nil {
		return "", nil, err
	}
	s.sb.WriteString("SELECT ")
	s.sb.WriteString(obj)
	s.sb.WriteString(" FROM ")
	s.sb.WriteString(t.from)

	var preds []string
	for _, c := range q.Where {
		p, err := s.condition(c)
		if err != nil {
			return "", nil, err
		}
		preds = append(preds, p)
	}
	for _, g := range q.Groups {
		p, err := s.group(g)
		if err != nil {
			return "", nil, err
		}
		if p != "" {
			preds = append(preds, p)
		}
	}
	if len(preds) > 0 {
		s.sb.WriteString(" WHERE ")
		s.sb.WriteString(strings.Join(preds, " AND "))
	}

	if len(q.OrderBy) > 0 {
		var orders []string
		for _, o := range q.OrderBy {
			col, ok := t.columns[o.Field]
			if !ok {
				return "", nil, errors.Wrap(records.ErrUnknownField, o.Field)
			}
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			orders = append(orders, col+" "+dir)
		}
		s.sb.WriteString(" ORDER BY ")
		s.sb.WriteString(strings.Join(orders, ", "))
	}

	if q.Paging.Limit > 0 {
		s.sb.WriteString(" LIMIT " + s.arg(q.Paging.Limit))
	}
	if q.Paging.Offset > 0 {
		s.sb.WriteString(" OFFSET " + s.arg(q.Paging.Offset))
	}
	return s.sb.String(), s.args, nil
}

// object renders the selected fields as a jsonb_build_object call. The id is
// always included.
func (s *statement) object(fields []records.Field) (string, error) {
	parts := []string{quote(records.FieldID), s.t.columns[records.FieldID]}
	for _, f := range fields {
		if f.Name == records.FieldID {
			continue
		}
		if col, ok := s.t.columns[f.Name]; ok {
			parts = append(parts, quote(f.Name), col)
			continue
		}
		ref, ok := s.t.refs[f.Name]
		if !ok {
			return "", errors.Wrap(records.ErrUnknownField, f.Name)
		}
		parts = append(parts, quote(f.Name), fmt.Sprintf(
			"CASE WHEN %s IS NULL THEN NULL ELSE jsonb_build_object('Id', %s, 'Name', %s) END",
			ref.id, ref.id, ref.name,
		))
	}
	return "jsonb_build_object(" + strings.Join(parts, ", ") + ")", nil
}

func (s *statement) group(g records.Group) (string, error) {
	var parts []string
	for _, c := range g.Conditions {
		p, err := s.condition(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}
	for _, sub := range g.Groups {
		p, err := s.group(sub)
		if err != nil {
			return "", err
		}
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	logic := " AND "
	if g.Logic == records.Or {
		logic = " OR "
	}
	return "(" + strings.Join(parts, logic) + ")", nil
}

func (s *statement) condition(c records.Condition) (string, error) {
	if len(c.Values) == 0 {
		return "", errors.Errorf("condition on %q has no values", c.Field)
	}
	lhs, err := s.operand(c.Field, c.Values[0])
	if err != nil {
		return "", err
	}

	switch c.Operator {
	case records.EqualTo, records.ExactMatch:
		if len(c.Values) == 1 {
			return lhs + " = " + s.arg(c.Values[0]), nil
		}
		return lhs + " IN (" + s.list(c.Values) + ")", nil
	case records.NotEqualTo:
		if len(c.Values) == 1 {
			return lhs + " IS DISTINCT FROM " + s.arg(c.Values[0]), nil
		}
		return "(" + lhs + " IS NULL OR " + lhs + " NOT IN (" + s.list(c.Values) + "))", nil
	case records.GreaterThan:
		return lhs + " > " + s.arg(c.Values[0]), nil
	case records.GreaterThanOrEqualTo:
		return lhs + " >= " + s.arg(c.Values[0]), nil
	case records.LessThan:
		return lhs + " < " + s.arg(c.Values[0]), nil
	case records.LessThanOrEqualTo:
		return lhs + " <= " + s.arg(c.Values[0]), nil
	case records.Contains:
		var ors []string
		for _, v := range c.Values {
			ors = append(ors, lhs+" ILIKE '%' || "+s.arg(escapeLike(fmt.Sprint(v)))+"::text || '%'")
		}
		if len(ors) == 1 {
			return ors[0], nil
		}
		return "(" + strings.Join(ors, " OR ") + ")", nil
	default:
		return "", errors.Errorf("unsupported operator %q", c.Operator)
	}
}

// operand resolves a field to the expression compared against v.
func (s *statement) operand(field string, v any) (string, error) {
	if col, ok := s.t.columns[field]; ok {
		return col, nil
	}
	ref, ok := s.t.refs[field]
	if !ok {
		return "", errors.Wrap(records.ErrUnknownField, field)
	}
	switch v.(type) {
	case int, int32, int64:
		return ref.key, nil
	default:
		return ref.name, nil
	}
}

func (s *statement) list(values []any) string {
	ph := make([]string, len(values))
	for i, v := range values {
		ph[i] = s.arg(v)
	}
	return strings.Join(ph, ", ")
}

func quote(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
