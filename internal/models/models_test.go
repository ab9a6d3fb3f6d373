package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrepareCategory(t *testing.T) {
	c := &Category{Name: "  Science  Fiction "}
	PrepareCategory(c)

	assert.Equal(t, "Science  Fiction", c.Name)
	assert.Equal(t, "science-fiction", c.Slug)
}

func TestPrepareProduct(t *testing.T) {
	p := &Product{Name: " World Atlas ", Description: " maps ", HasPhoto: true}
	PrepareProduct(p)

	assert.Equal(t, "World Atlas", p.Name)
	assert.Equal(t, "world-atlas", p.Slug)
	assert.Equal(t, "maps", p.Description)
	assert.True(t, p.HasPhoto, "existing photo flag is kept when no photo is attached")

	p.Photo = &Photo{Data: []byte{0xff, 0xd8}, ContentType: "image/jpeg"}
	PrepareProduct(p)
	assert.True(t, p.HasPhoto)

	p.Photo = &Photo{}
	PrepareProduct(p)
	assert.False(t, p.HasPhoto)
}

func TestCategorySummary(t *testing.T) {
	c := Category{ID: "c1", Name: "Books", Slug: "books"}
	assert.Equal(t, &Category{ID: "c1", Name: "Books"}, c.Summary())
}
