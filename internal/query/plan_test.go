package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildBounds(t *testing.T) {
	plan := Build(url.Values{
		"min_price":   {"10.5"},
		"max_price":   {"200"},
		"min_rating":  {"4"},
		"min_reviews": {"50"},
	})

	assert.Equal(t, " WHERE price >= $1 AND price <= $2 AND rating >= $3 AND reviews_count >= $4", plan.WhereSQL())
	assert.Equal(t, []any{10.5, 200.0, 4.0, 50}, plan.Args())
}

func TestBuildNoParams(t *testing.T) {
	plan := Build(url.Values{})

	assert.Empty(t, plan.WhereSQL())
	assert.Empty(t, plan.Args())
	assert.Equal(t, " ORDER BY created_at DESC", plan.OrderSQL())
}

func TestBuildIgnoresUnparseableValues(t *testing.T) {
	plan := Build(url.Values{
		"min_price":   {"cheap"},
		"max_price":   {""},
		"min_reviews": {"3.5"},
		"min_rating":  {"4"},
	})

	assert.Equal(t, " WHERE rating >= $1", plan.WhereSQL())
	assert.Equal(t, []any{4.0}, plan.Args())
}

func TestBuildOrdering(t *testing.T) {
	plan := Build(url.Values{"ordering": {"-price,name"}})
	assert.Equal(t, " ORDER BY price DESC, name", plan.OrderSQL())

	plan = Build(url.Values{"ordering": {"reviews_count,-rating"}})
	assert.Equal(t, " ORDER BY reviews_count, rating DESC", plan.OrderSQL())
}

func TestBuildDropsUnknownTokens(t *testing.T) {
	// tokens outside the allow-list must not affect the result order
	plan := Build(url.Values{"ordering": {"price;DROP TABLE products,-price"}})
	assert.Equal(t, Build(url.Values{"ordering": {"-price"}}).OrderSQL(), plan.OrderSQL())

	plan = Build(url.Values{"ordering": {"created_at,id,-"}})
	assert.Equal(t, " ORDER BY created_at DESC", plan.OrderSQL(), "no valid tokens falls back to default")
}

func TestBuildFilteringAndOrderingIndependent(t *testing.T) {
	plan := Build(url.Values{
		"min_price": {"broken"},
		"ordering":  {"rating"},
	})
	assert.Empty(t, plan.WhereSQL())
	assert.Equal(t, " ORDER BY rating", plan.OrderSQL())

	plan = Build(url.Values{
		"min_price": {"5"},
		"ordering":  {"bogus"},
	})
	assert.Equal(t, " WHERE price >= $1", plan.WhereSQL())
	assert.Equal(t, " ORDER BY created_at DESC", plan.OrderSQL())
}
