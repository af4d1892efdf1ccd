package query

import (
	"fmt"
	"reflect"
	"strings"
)

type condition struct {
	clause string
	args   []any
}

// SortField represents a single column in an ORDER BY clause.
// Field is the logical field name (mapped via ProjectionMap).
// Descending controls sort direction (false = ASC, true = DESC).
type SortField struct {
	Field      string
	Descending bool
}

// Builder constructs SQL queries using a fluent API with automatic parameter numbering.
// Conditions use "$%d" as the placeholder marker; Build renumbers them in order.
type Builder struct {
	projection        *ProjectionMap
	conditions        []condition
	orderByFields     []SortField
	defaultSortFields []SortField
	limit             int
}

// NewBuilder creates a Builder for the given projection with optional default sort fields.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:        projection,
		conditions:        make([]condition, 0),
		defaultSortFields: defaultSort,
	}
}

// Build returns a SELECT query with the current conditions, ordering, and limit.
func (b *Builder) Build() (string, []any) {
	where, args, _ := b.buildWhere(1)
	orderBy := b.buildOrderBy()

	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		b.projection.Columns(),
		b.projection.Table(),
		where,
		orderBy,
	)
	if b.limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", b.limit)
	}

	return sql, args
}

// BuildColumns returns a SELECT of only the named fields with the current conditions and ordering.
func (b *Builder) BuildColumns(fields ...string) (string, []any) {
	where, args, _ := b.buildWhere(1)
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.Column(f)
	}

	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		strings.Join(cols, ", "),
		b.projection.Table(),
		where,
		b.buildOrderBy(),
	)
	return sql, args
}

// BuildSingle returns a SELECT query for a single record by ID.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	col := b.projection.Column(idField)
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.Table(),
		col,
	)
	return sql, []any{id}
}

// Limit caps the number of returned rows. Zero disables the cap.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

// OrderByFields sets the sort order, overriding default sort fields.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.orderByFields = fields
	return b
}

// WhereEquals adds an equality condition. No-op for nil values.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	b.conditions = append(b.conditions, condition{
		clause: fmt.Sprintf("%s = $%%d", col),
		args:   []any{value},
	})
	return b
}

// WhereStartsWith adds a case-sensitive prefix LIKE condition. An empty prefix matches everything.
func (b *Builder) WhereStartsWith(field, prefix string) *Builder {
	if prefix == "" {
		return b
	}
	col := b.projection.Column(field)
	b.conditions = append(b.conditions, condition{
		clause: fmt.Sprintf(`%s LIKE $%%d ESCAPE '\'`, col),
		args:   []any{EscapeLike(prefix) + "%"},
	})
	return b
}

// WhereAnyEquals matches rows whose array column contains value.
func (b *Builder) WhereAnyEquals(field string, value any) *Builder {
	col := b.projection.Column(field)
	b.conditions = append(b.conditions, condition{
		clause: fmt.Sprintf("$%%d = ANY(%s)", col),
		args:   []any{value},
	})
	return b
}

// WhereOverlaps matches rows whose array column shares an element with values.
// No-op for empty slices.
func (b *Builder) WhereOverlaps(field string, values []string) *Builder {
	if len(values) == 0 {
		return b
	}
	col := b.projection.Column(field)
	b.conditions = append(b.conditions, condition{
		clause: fmt.Sprintf("%s && $%%d", col),
		args:   []any{values},
	})
	return b
}

// WhereAnyAffix matches rows where at least one element of an array column starts
// with prefix and, when suffix is non-empty, ends with it. minLength bounds the
// element length so prefix and suffix cannot overlap.
func (b *Builder) WhereAnyAffix(field, prefix, suffix string, minLength int) *Builder {
	col := b.projection.Column(field)
	clauses := []string{`e LIKE $%d ESCAPE '\'`}
	args := []any{EscapeLike(prefix) + "%"}
	if suffix != "" {
		clauses = append(clauses, `e LIKE $%d ESCAPE '\'`, "char_length(e) >= $%d")
		args = append(args, "%"+EscapeLike(suffix), minLength)
	}
	b.conditions = append(b.conditions, condition{
		clause: fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(%s) AS e WHERE %s)",
			col, strings.Join(clauses, " AND "),
		),
		args: args,
	})
	return b
}

// EscapeLike escapes LIKE metacharacters using backslash.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (b *Builder) buildOrderBy() string {
	fields := b.orderByFields
	if len(fields) == 0 {
		fields = b.defaultSortFields
	}

	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		col := b.projection.Column(f.Field)
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = fmt.Sprintf("%s %s", col, dir)
	}

	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) buildWhere(startParam int) (string, []any, int) {
	if len(b.conditions) == 0 {
		return "", nil, startParam
	}

	clauses := make([]string, 0, len(b.conditions))
	args := make([]any, 0)
	paramIdx := startParam

	for _, cond := range b.conditions {
		clause := cond.clause
		for _, arg := range cond.args {
			clause = strings.Replace(clause, "$%d", fmt.Sprintf("$%d", paramIdx), 1)
			args = append(args, arg)
			paramIdx++
		}
		clauses = append(clauses, clause)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, paramIdx
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}

	return false
}
