package mongostore

import (
	"regexp"

	"ecommerce-api/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// photoDataProjection keeps the content type so has_photo can be derived
// without loading the payload.
var photoDataProjection = bson.D{{Key: "photo.data", Value: 0}}

var documentFields = map[string]string{
	query.FieldID:        "_id",
	query.FieldCreatedAt: "createdAt",
	query.FieldUpdatedAt: "updatedAt",
}

func documentField(field string) string {
	if name, ok := documentFields[field]; ok {
		return name
	}
	return field
}

func isIDField(field string) bool {
	return field == query.FieldID || field == query.FieldCategory
}

// toBSON translates a filter into a Mongo filter document. matchable is false
// when an id condition can never match (e.g. a malformed ObjectID), in which
// case the query need not be sent.
func toBSON(f query.Filter) (doc bson.D, matchable bool) {
	doc = bson.D{}
	for _, c := range f {
		name := documentField(c.Field)

		switch c.Op {
		case query.OpEq:
			v, ok := documentValue(c.Field, c.Value)
			if !ok {
				return nil, false
			}
			doc = append(doc, bson.E{Key: name, Value: v})

		case query.OpNe:
			v, ok := documentValue(c.Field, c.Value)
			if !ok {
				continue
			}
			doc = append(doc, bson.E{Key: name, Value: bson.D{{Key: "$ne", Value: v}}})

		case query.OpIn:
			values := make(bson.A, 0, len(c.Values))
			for _, raw := range c.Values {
				if v, ok := documentValue(c.Field, raw); ok {
					values = append(values, v)
				}
			}
			if len(values) == 0 {
				return nil, false
			}
			doc = append(doc, bson.E{Key: name, Value: bson.D{{Key: "$in", Value: values}}})

		case query.OpRange:
			doc = append(doc, bson.E{Key: name, Value: bson.D{
				{Key: "$gte", Value: c.Min},
				{Key: "$lte", Value: c.Max},
			}})

		case query.OpContains:
			term, _ := c.Value.(string)
			doc = append(doc, bson.E{Key: name, Value: primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}})
		}
	}
	return doc, true
}

func documentValue(field string, v interface{}) (interface{}, bool) {
	if !isIDField(field) {
		return v, true
	}
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return nil, false
	}
	return oid, true
}

func findOptions(q query.Query) *options.FindOptions {
	dir := 1
	if q.Direction == query.Descending {
		dir = -1
	}

	field := documentField(q.SortField)
	if q.SortField == "" {
		field = "_id"
	}
	sort := bson.D{{Key: field, Value: dir}}
	if field != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}

	opts := options.Find().SetSort(sort).SetProjection(photoDataProjection)
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}
