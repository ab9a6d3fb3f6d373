package query

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindID
	KindTime
)

// Canonical product field names shared by every store adapter.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldSlug        = "slug"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldCategory    = "category"
	FieldQuantity    = "quantity"
	FieldSold        = "sold"
	FieldShipping    = "shipping"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

type Field struct {
	Name string
	Kind Kind
}

var productFields = map[string]Field{
	FieldID:          {FieldID, KindID},
	FieldName:        {FieldName, KindString},
	FieldSlug:        {FieldSlug, KindString},
	FieldDescription: {FieldDescription, KindString},
	FieldPrice:       {FieldPrice, KindNumber},
	FieldCategory:    {FieldCategory, KindID},
	FieldQuantity:    {FieldQuantity, KindNumber},
	FieldSold:        {FieldSold, KindNumber},
	FieldShipping:    {FieldShipping, KindBool},
	FieldCreatedAt:   {FieldCreatedAt, KindTime},
	FieldUpdatedAt:   {FieldUpdatedAt, KindTime},
}

var fieldAliases = map[string]string{
	"_id":         FieldID,
	"productSlug": FieldSlug,
	"createdAt":   FieldCreatedAt,
	"updatedAt":   FieldUpdatedAt,
}

// LookupField resolves a client-supplied field name, including the camelCase
// and "_id" aliases, to its canonical product field.
func LookupField(name string) (Field, bool) {
	if canonical, ok := fieldAliases[name]; ok {
		name = canonical
	}
	f, ok := productFields[name]
	return f, ok
}

func coerce(f Field, v interface{}) (interface{}, error) {
	switch f.Kind {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindID:
		if s, ok := v.(string); ok && s != "" {
			return s, nil
		}
	case KindNumber:
		if n, ok := numberValue(v); ok {
			return n, nil
		}
	case KindBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			if parsed, err := strconv.ParseBool(b); err == nil {
				return parsed, nil
			}
		}
	case KindTime:
		return nil, fmt.Errorf("field %s cannot be filtered", f.Name)
	}
	return nil, fmt.Errorf("invalid value %v for field %s", v, f.Name)
}

func numberValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return toFloat(v)
	}
}

func isEmpty(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []interface{}:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case []float64:
		return len(x) == 0
	default:
		return false
	}
}
