// Package query turns untrusted request parameters into a SQL plan for the
// products table. Column names only ever come from fixed maps in this file,
// so a rendered plan cannot carry injected identifiers.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// sortColumns is the ordering allow-list. Tokens outside it are dropped.
var sortColumns = map[string]string{
	"price":         "price",
	"rating":        "rating",
	"reviews_count": "reviews_count",
	"name":          "name",
}

const defaultOrder = "created_at DESC"

// Plan is a validated filter/sort specification, built per request and
// discarded after execution.
type Plan struct {
	where []string
	args  []any
	order []string
}

// Build derives a Plan from raw query parameters.
//
// Filter values that do not parse as numbers are ignored rather than
// rejected: the original frontend submits empty strings for untouched
// filter inputs, and a 400 there would break it. Filtering and ordering
// are independent; a bad filter never disables ordering and vice versa.
func Build(values url.Values) Plan {
	var p Plan

	if v, err := strconv.ParseFloat(values.Get("min_price"), 64); err == nil {
		p.addWhere("price >=", v)
	}
	if v, err := strconv.ParseFloat(values.Get("max_price"), 64); err == nil {
		p.addWhere("price <=", v)
	}
	if v, err := strconv.ParseFloat(values.Get("min_rating"), 64); err == nil {
		p.addWhere("rating >=", v)
	}
	if v, err := strconv.Atoi(values.Get("min_reviews")); err == nil {
		p.addWhere("reviews_count >=", v)
	}

	for _, token := range strings.Split(values.Get("ordering"), ",") {
		name, desc := strings.CutPrefix(token, "-")
		col, ok := sortColumns[name]
		if !ok {
			continue
		}
		if desc {
			col += " DESC"
		}
		p.order = append(p.order, col)
	}
	if len(p.order) == 0 {
		p.order = []string{defaultOrder}
	}
	return p
}

func (p *Plan) addWhere(expr string, arg any) {
	p.args = append(p.args, arg)
	p.where = append(p.where, fmt.Sprintf("%s $%d", expr, len(p.args)))
}

// WhereSQL renders the predicate clause, starting with " WHERE" when any
// predicate exists and empty otherwise.
func (p Plan) WhereSQL() string {
	if len(p.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.where, " AND ")
}

// OrderSQL renders the " ORDER BY ..." clause; there is always at least the
// default most-recent-first key.
func (p Plan) OrderSQL() string {
	return " ORDER BY " + strings.Join(p.order, ", ")
}

// Args returns positional arguments matching the $n placeholders in WhereSQL.
func (p Plan) Args() []any {
	return p.args
}
