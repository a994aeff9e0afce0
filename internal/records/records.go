// Package records describes the record-fetch data service the storefront
// reads its catalog from: a tabular store queried by entity name with field
// selection, predicates, ordering and paging.
package records

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Entity names served by the data service.
const (
	EntityProduct  = "product_c"
	EntityCategory = "category_c"
)

// FieldID is the primary key field present on every record.
const FieldID = "Id"

var (
	// ErrUnknownEntity is reported when a query names an entity the backend
	// does not serve.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrUnknownField is reported when a query references a field the entity
	// does not have.
	ErrUnknownField = errors.New("unknown field")
)

// Operator is a predicate operator.
type Operator string

const (
	EqualTo              Operator = "EqualTo"
	NotEqualTo           Operator = "NotEqualTo"
	GreaterThan          Operator = "GreaterThan"
	GreaterThanOrEqualTo Operator = "GreaterThanOrEqualTo"
	LessThan             Operator = "LessThan"
	LessThanOrEqualTo    Operator = "LessThanOrEqualTo"
	// Contains matches a case-insensitive substring.
	Contains Operator = "Contains"
	// ExactMatch matches any of the given values.
	ExactMatch Operator = "ExactMatch"
)

// Logic joins conditions inside a group.
type Logic string

const (
	And Logic = "AND"
	Or  Logic = "OR"
)

// Field selects a field of the entity. Reference names the field of the
// referenced record to embed when Name is a lookup field.
type Field struct {
	Name      string
	Reference string
}

// Condition is a single predicate. Multiple values are alternatives.
type Condition struct {
	Field    string
	Operator Operator
	Values   []any
}

// Group is a set of conditions and nested groups joined by Logic.
type Group struct {
	Logic      Logic
	Conditions []Condition
	Groups     []Group
}

// Order sorts results by a field.
type Order struct {
	Field string
	Desc  bool
}

// Paging limits the result window. Zero Limit means no limit.
type Paging struct {
	Limit  int
	Offset int
}

// Query is a record query. Where conditions and Groups are all joined with AND.
type Query struct {
	Fields  []Field
	Where   []Condition
	Groups  []Group
	OrderBy []Order
	Paging  Paging
}

// ListResponse is the result of FetchRecords. Data holds one JSON object per
// record, keyed by field name; lookup fields are embedded as {"Id","Name"}.
type ListResponse struct {
	Success bool
	Data    []jx.Raw
	Message string
}

// RecordResponse is the result of GetRecordByID. Data is nil when no record
// matched.
type RecordResponse struct {
	Success bool
	Data    jx.Raw
	Message string
}

// Fetcher is the record-fetch collaborator.
//
// A response with Success false is a normal outcome, not an error: callers
// log the message and degrade to an empty or not-found result. A non-nil error
// signals a transport failure and is handled the same way.
type Fetcher interface {
	FetchRecords(ctx context.Context, entity string, q Query) (*ListResponse, error)
	GetRecordByID(ctx context.Context, entity string, id int64, q Query) (*RecordResponse, error)
}

// Where builds a condition.
func Where(field string, op Operator, values ...any) Condition {
	return Condition{Field: field, Operator: op, Values: values}
}

// Select builds a field list from plain field names.
func Select(names ...string) []Field {
	fields := make([]Field, len(names))
	for i, n := range names {
		fields[i] = Field{Name: n}
	}
	return fields
}

// ByIDAsc is the ordering used by every storefront listing.
var ByIDAsc = []Order{{Field: FieldID}}
