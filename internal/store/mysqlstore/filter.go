package mysqlstore

import (
	"strings"

	"ecommerce-api/internal/query"
)

// maxRows stands in for "no limit" when only an offset is requested.
const maxRows = "18446744073709551615"

var productColumns = map[string]string{
	query.FieldID:          "id",
	query.FieldName:        "name",
	query.FieldSlug:        "slug",
	query.FieldDescription: "description",
	query.FieldPrice:       "price",
	query.FieldCategory:    "category_id",
	query.FieldQuantity:    "quantity",
	query.FieldSold:        "sold",
	query.FieldShipping:    "shipping",
	query.FieldCreatedAt:   "created_at",
	query.FieldUpdatedAt:   "updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause renders a filter as a WHERE clause with positional arguments.
// ok is false when the filter can never match.
func whereClause(f query.Filter) (clause string, args []interface{}, ok bool) {
	parts := make([]string, 0, len(f))
	for _, c := range f {
		col, known := productColumns[c.Field]
		if !known {
			continue
		}

		switch c.Op {
		case query.OpEq:
			parts = append(parts, col+" = ?")
			args = append(args, c.Value)
		case query.OpNe:
			parts = append(parts, col+" <> ?")
			args = append(args, c.Value)
		case query.OpIn:
			if len(c.Values) == 0 {
				return "", nil, false
			}
			parts = append(parts, col+" IN ("+placeholders(len(c.Values))+")")
			args = append(args, c.Values...)
		case query.OpRange:
			parts = append(parts, col+" BETWEEN ? AND ?")
			args = append(args, c.Min, c.Max)
		case query.OpContains:
			term, _ := c.Value.(string)
			parts = append(parts, "LOWER("+col+") LIKE ?")
			args = append(args, "%"+likeEscaper.Replace(strings.ToLower(term))+"%")
		}
	}

	if len(parts) == 0 {
		return "", args, true
	}
	return " WHERE " + strings.Join(parts, " AND "), args, true
}

// orderClause sorts by the requested column. Insertion order (seq) breaks ties
// and stands in for the id, which carries no ordering of its own.
func orderClause(q query.Query) string {
	dir := "ASC"
	if q.Direction == query.Descending {
		dir = "DESC"
	}

	col, ok := productColumns[q.SortField]
	if !ok || q.SortField == query.FieldID {
		return " ORDER BY seq " + dir
	}
	return " ORDER BY " + col + " " + dir + ", seq ASC"
}

func limitClause(q query.Query) (string, []interface{}) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	switch {
	case q.Limit > 0:
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	case q.Skip > 0:
		sb.WriteString(" LIMIT " + maxRows)
	}
	if q.Skip > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, q.Skip)
	}
	return sb.String(), args
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
