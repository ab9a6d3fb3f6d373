// Package query builds store-agnostic product query descriptors from loosely
// structured listing, search and filter requests. Store adapters translate a
// Query into their native form; Filter.Matches evaluates one in process.
package query

import (
	"strings"
	"time"
)

type Op int

const (
	OpEq Op = iota
	OpIn
	OpNe
	OpRange
	OpContains
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpIn:
		return "in"
	case OpNe:
		return "ne"
	case OpRange:
		return "range"
	case OpContains:
		return "contains"
	default:
		return "unknown"
	}
}

// Condition restricts a single field. Value is used by Eq, Ne and Contains,
// Values by In, and Min/Max (both inclusive) by Range.
type Condition struct {
	Field  string
	Op     Op
	Value  interface{}
	Values []interface{}
	Min    float64
	Max    float64
}

// Filter is a conjunction of conditions. Each field appears at most once.
type Filter []Condition

func (f Filter) Get(field string) (Condition, bool) {
	for _, c := range f {
		if c.Field == field {
			return c, true
		}
	}
	return Condition{}, false
}

type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Query is the normalized descriptor executed by a product store. A zero
// Limit means no limit.
type Query struct {
	Filter    Filter
	SortField string
	Direction Direction
	Skip      int64
	Limit     int64
}

func (c Condition) Matches(v interface{}) bool {
	switch c.Op {
	case OpEq:
		return equal(v, c.Value)
	case OpNe:
		return !equal(v, c.Value)
	case OpIn:
		for _, want := range c.Values {
			if equal(v, want) {
				return true
			}
		}
		return false
	case OpRange:
		n, ok := toFloat(v)
		return ok && n >= c.Min && n <= c.Max
	case OpContains:
		s, ok := v.(string)
		term, _ := c.Value.(string)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(term))
	default:
		return false
	}
}

// Matches reports whether a document satisfies every condition. get returns
// the document's value for a canonical field name.
func (f Filter) Matches(get func(field string) interface{}) bool {
	for _, c := range f {
		if !c.Matches(get(c.Field)) {
			return false
		}
	}
	return true
}

// Compare orders two field values of the same kind: numbers, strings, bools
// (false first) and times. Values of mismatched kinds compare equal.
func Compare(a, b interface{}) int {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok && x != y {
			if !x {
				return -1
			}
			return 1
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	return 0
}

func equal(a, b interface{}) bool {
	if x, ok := toFloat(a); ok {
		y, ok := toFloat(b)
		return ok && x == y
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
