package supabase

import (
	"net/url"
	"strconv"
)

// Query builds PostgREST query-string filters
type Query struct {
	values url.Values
}

// NewQuery starts an empty query
func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// Select limits the returned columns, e.g. "id,team_name"
func (q *Query) Select(columns string) *Query {
	q.values.Set("select", columns)
	return q
}

// Eq adds a column=eq.value filter
func (q *Query) Eq(column, value string) *Query {
	q.values.Add(column, "eq."+value)
	return q
}

// Order sorts by column
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.values.Set("order", column+"."+dir)
	return q
}

// Limit caps the number of rows
func (q *Query) Limit(n int) *Query {
	q.values.Set("limit", strconv.Itoa(n))
	return q
}

// Encode renders the query string
func (q *Query) Encode() string {
	if q == nil {
		return ""
	}
	return q.values.Encode()
}
