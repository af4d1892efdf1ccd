// Package query builds parameterized PostgreSQL SELECT statements from a
// projection of logical field names onto table columns.
package query

import "strings"

type projected struct {
	field  string
	column string
}

// ProjectionMap binds logical field names to alias-qualified columns of one
// table. Projection order is the SELECT order, so scanners must match it.
type ProjectionMap struct {
	table   string
	alias   string
	entries []projected
	index   map[string]int
}

// NewProjectionMap starts a projection over schema.table under alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		table: schema + "." + table,
		alias: alias,
		index: make(map[string]int),
	}
}

// Project maps column to field and appends it to the select list.
// Projecting a field twice rebinds it in place.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	e := projected{field: field, column: p.alias + "." + column}
	if i, ok := p.index[field]; ok {
		p.entries[i] = e
		return p
	}
	p.index[field] = len(p.entries)
	p.entries = append(p.entries, e)
	return p
}

func (p *ProjectionMap) Alias() string { return p.alias }

// Table returns "schema.table alias" for use in a FROM clause.
func (p *ProjectionMap) Table() string {
	return p.table + " " + p.alias
}

// Column resolves field to its qualified column. Unknown fields pass through
// unchanged so raw expressions can be used in sorts and conditions.
func (p *ProjectionMap) Column(field string) string {
	if i, ok := p.index[field]; ok {
		return p.entries[i].column
	}
	return field
}

// Columns renders the select list.
func (p *ProjectionMap) Columns() string {
	cols := make([]string, len(p.entries))
	for i, e := range p.entries {
		cols[i] = e.column
	}
	return strings.Join(cols, ", ")
}

// Fields returns the logical field names in select order.
func (p *ProjectionMap) Fields() []string {
	fields := make([]string, len(p.entries))
	for i, e := range p.entries {
		fields[i] = e.field
	}
	return fields
}
