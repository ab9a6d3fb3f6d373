package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"ecommerce-api/internal/apperrors"
)

const (
	DefaultListingLimit = 6
	DefaultRelatedLimit = 6
	DefaultFilterLimit  = 100

	// AllCategories is the category selector that disables category filtering in search.
	AllCategories = "All"
)

// Numeric holds a count supplied either as a JSON number or as a string.
// Parsing is deferred so malformed input can fall back to a default.
type Numeric string

func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}
	*n = Numeric(data)
	return nil
}

type ListingParams struct {
	SortBy string
	Order  string
	Limit  string
}

type SearchParams struct {
	Search   string
	Category string
}

type FilterRequest struct {
	Order   string                 `json:"order"`
	SortBy  string                 `json:"sortBy"`
	Limit   Numeric                `json:"limit"`
	Skip    Numeric                `json:"skip"`
	Filters map[string]interface{} `json:"filters"`
}

// BuildListing returns an unfiltered query sorted by id ascending and limited
// to six products unless overridden.
func BuildListing(p ListingParams) (Query, error) {
	field, err := sortField(p.SortBy)
	if err != nil {
		return Query{}, err
	}
	return Query{
		SortField: field,
		Direction: parseDirection(p.Order, Ascending),
		Limit:     parseLimit(p.Limit, DefaultListingLimit),
	}, nil
}

// BuildSearch matches the search term as a case-insensitive substring of the
// product name. ok is false when no term was supplied; callers must then
// return no products without querying the store.
func BuildSearch(p SearchParams) (q Query, ok bool) {
	term := strings.TrimSpace(p.Search)
	if term == "" {
		return Query{}, false
	}

	q = Query{
		Filter:    Filter{{Field: FieldName, Op: OpContains, Value: term}},
		SortField: FieldID,
		Direction: Ascending,
	}
	if category := strings.TrimSpace(p.Category); category != "" && category != AllCategories {
		q.Filter = append(q.Filter, Condition{Field: FieldCategory, Op: OpEq, Value: category})
	}
	return q, true
}

// BuildFilter translates a structured filter request. Empty filter values are
// dropped, price takes a [min, max] pair and lists become set membership.
func BuildFilter(req FilterRequest) (Query, error) {
	field, err := sortField(req.SortBy)
	if err != nil {
		return Query{}, err
	}

	q := Query{
		SortField: field,
		Direction: parseDirection(req.Order, Descending),
		Skip:      parseSkip(string(req.Skip)),
		Limit:     parseLimit(string(req.Limit), DefaultFilterLimit),
	}

	keys := make([]string, 0, len(req.Filters))
	for key := range req.Filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := req.Filters[key]
		if isEmpty(raw) {
			continue
		}

		f, ok := LookupField(key)
		if !ok {
			return Query{}, apperrors.Validation("unknown filter field %q", key)
		}

		cond, err := buildCondition(f, raw)
		if err != nil {
			return Query{}, apperrors.Validation("%s", err.Error())
		}
		q.Filter = append(q.Filter, cond)
	}

	return q, nil
}

// BuildRelated selects other products of the same category.
func BuildRelated(productID, categoryID, limit string) Query {
	return Query{
		Filter: Filter{
			{Field: FieldCategory, Op: OpEq, Value: categoryID},
			{Field: FieldID, Op: OpNe, Value: productID},
		},
		SortField: FieldID,
		Direction: Ascending,
		Limit:     parseLimit(limit, DefaultRelatedLimit),
	}
}

func buildCondition(f Field, raw interface{}) (Condition, error) {
	values, isList := toSlice(raw)

	if f.Name == FieldPrice {
		if !isList || len(values) != 2 {
			return Condition{}, errPriceRange
		}
		lower, okLower := numberValue(values[0])
		upper, okUpper := numberValue(values[1])
		if !okLower || !okUpper {
			return Condition{}, errPriceRange
		}
		return Condition{Field: f.Name, Op: OpRange, Min: lower, Max: upper}, nil
	}

	if !isList {
		v, err := coerce(f, raw)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Field: f.Name, Op: OpEq, Value: v}, nil
	}

	coerced := make([]interface{}, 0, len(values))
	for _, v := range values {
		c, err := coerce(f, v)
		if err != nil {
			return Condition{}, err
		}
		coerced = append(coerced, c)
	}
	return Condition{Field: f.Name, Op: OpIn, Values: coerced}, nil
}

var errPriceRange = errors.New("price filter must be a [min, max] pair of numbers")

func toSlice(v interface{}) ([]interface{}, bool) {
	switch x := v.(type) {
	case []interface{}:
		return x, true
	case []string:
		out := make([]interface{}, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]interface{}, len(x))
		for i, n := range x {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}

func sortField(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return FieldID, nil
	}
	f, ok := LookupField(strings.TrimSpace(name))
	if !ok {
		return "", apperrors.Validation("cannot sort by %q", name)
	}
	return f.Name, nil
}

func parseDirection(order string, def Direction) Direction {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "asc", "ascending", "1":
		return Ascending
	case "desc", "descending", "-1":
		return Descending
	default:
		return def
	}
}

func parseLimit(s string, def int64) int64 {
	n, ok := parseCount(s)
	if !ok || n <= 0 {
		return def
	}
	return n
}

func parseSkip(s string) int64 {
	n, ok := parseCount(s)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// parseCount accepts integers and truncates decimal input ("12.7" -> 12).
func parseCount(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}
