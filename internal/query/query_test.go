package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConditionMatches(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		v    interface{}
		want bool
	}{
		{"eq string", Condition{Op: OpEq, Value: "a"}, "a", true},
		{"eq number across int kinds", Condition{Op: OpEq, Value: 3.0}, 3, true},
		{"eq bool mismatch", Condition{Op: OpEq, Value: true}, false, false},
		{"ne", Condition{Op: OpNe, Value: "p1"}, "p2", true},
		{"ne same", Condition{Op: OpNe, Value: "p1"}, "p1", false},
		{"in", Condition{Op: OpIn, Values: []interface{}{"a", "b"}}, "b", true},
		{"in miss", Condition{Op: OpIn, Values: []interface{}{"a", "b"}}, "c", false},
		{"contains ignores case", Condition{Op: OpContains, Value: "ATL"}, "World Atlas", true},
		{"contains miss", Condition{Op: OpContains, Value: "globe"}, "World Atlas", false},
		{"range non number", Condition{Op: OpRange, Min: 1, Max: 2}, "1.5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Matches(tt.v))
		})
	}
}

func TestFilterMatches(t *testing.T) {
	doc := map[string]interface{}{FieldName: "Atlas", FieldPrice: 20.0, FieldCategory: "books"}
	get := func(field string) interface{} { return doc[field] }

	f := Filter{
		{Field: FieldPrice, Op: OpRange, Min: 15, Max: 25},
		{Field: FieldCategory, Op: OpEq, Value: "books"},
	}
	assert.True(t, f.Matches(get))

	f = append(f, Condition{Field: FieldName, Op: OpContains, Value: "globe"})
	assert.False(t, f.Matches(get))

	assert.True(t, Filter(nil).Matches(get))
}

func TestCompare(t *testing.T) {
	now := time.Now()

	assert.Equal(t, -1, Compare(1.0, 2))
	assert.Equal(t, 1, Compare("b", "a"))
	assert.Equal(t, -1, Compare(false, true))
	assert.Equal(t, 0, Compare(true, true))
	assert.Equal(t, 1, Compare(now.Add(time.Second), now))
	assert.Equal(t, 0, Compare("a", 1.0))
}
