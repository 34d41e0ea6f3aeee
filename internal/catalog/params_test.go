package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	allowed := map[string]string{"name": "p.name", "price": "p.price"}

	assert.Equal(t, "p.name ASC", orderClause("name", allowed, "p.name ASC"))
	assert.Equal(t, "p.price DESC", orderClause("-price", allowed, "p.name ASC"))
	// anything outside the whitelist falls back to the default
	assert.Equal(t, "p.name ASC", orderClause("inventory", allowed, "p.name ASC"))
	assert.Equal(t, "p.name ASC", orderClause("; DROP TABLE products", allowed, "p.name ASC"))
	assert.Equal(t, "p.name ASC", orderClause("", allowed, "p.name ASC"))
}

func TestLimitOffset(t *testing.T) {
	limit, offset := ListParams{}.limitOffset()
	assert.Equal(t, defaultPageSize, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ListParams{Page: 3, PageSize: 10}.limitOffset()
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)

	limit, _ = ListParams{PageSize: 9999}.limitOffset()
	assert.Equal(t, maxPageSize, limit)

	limit, offset = ListParams{Page: -1, PageSize: -5}.limitOffset()
	assert.Equal(t, defaultPageSize, limit)
	assert.Equal(t, 0, offset)
}

func TestValidateProductInput(t *testing.T) {
	ok := ProductInput{Name: "Clay Mug", Price: decimal.RequireFromString("29.99"), Inventory: 10}
	assert.NoError(t, ValidateProductInput(ok))

	bad := ProductInput{Name: "", Price: decimal.RequireFromString("29.999"), Inventory: -1}
	err := ValidateProductInput(bad)
	assert.Error(t, err)
}

func TestValidateProductUpdate(t *testing.T) {
	neg := -2
	err := ValidateProductUpdate(ProductUpdate{Inventory: &neg})
	assert.Error(t, err, "inventory can never go negative via update")

	five := 5
	assert.NoError(t, ValidateProductUpdate(ProductUpdate{Inventory: &five}))
}

func TestValidateArtisanInput(t *testing.T) {
	assert.Error(t, ValidateArtisanInput(ArtisanInput{}))
	assert.NoError(t, ValidateArtisanInput(ArtisanInput{BusinessName: "Test Craft Shop"}))
}
