package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListParams is the common list surface: free-text search, a single
// ordering field (leading '-' for descending), and page/page_size.
type ListParams struct {
	Search   string
	Ordering string
	Page     int
	PageSize int
}

func (p ListParams) limitOffset() (limit, offset int) {
	size := p.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	return size, (page - 1) * size
}

// ProductFilter narrows product lists. Price is an exact match on the
// stored 2-decimal value.
type ProductFilter struct {
	ListParams
	ArtisanID string
	Price     *decimal.Decimal
}

// orderClause maps an external ordering name onto a whitelisted column.
// Unknown names fall back to def so user input never reaches the SQL text.
func orderClause(raw string, allowed map[string]string, def string) string {
	dir := " ASC"
	name := raw
	if strings.HasPrefix(raw, "-") {
		dir = " DESC"
		name = raw[1:]
	}
	col, ok := allowed[name]
	if !ok {
		return def
	}
	return col + dir
}
