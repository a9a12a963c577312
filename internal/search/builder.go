package search

import (
	"strings"
)

const recencyOrder = "modified DESC"

// selectBuilder accumulates the clauses predicates add while a query is
// compiled. The base relation is the entity joined to its current revision
// under alias r.
//
// The filtered rows are wrapped in a derived table so derived columns such
// as greatcircle can be filtered and ordered by name on every engine.
type selectBuilder struct {
	columns     []derivedColumn
	joins       []string
	postFilters []Expr
	orderBy     []string
}

type derivedColumn struct {
	name string
	expr Expr
}

func (b *selectBuilder) addColumn(name string, expr Expr) {
	b.columns = append(b.columns, derivedColumn{name: name, expr: expr})
}

func (b *selectBuilder) addJoin(clause string) {
	b.joins = append(b.joins, clause)
}

func (b *selectBuilder) addPostFilter(e Expr) {
	b.postFilters = append(b.postFilters, e)
}

func (b *selectBuilder) addOrder(term string) {
	for _, existing := range b.orderBy {
		if existing == term {
			return
		}
	}
	b.orderBy = append(b.orderBy, term)
}

// build renders the statement. Args follow the placeholders' textual order.
// A limit of zero means unbounded.
func (b *selectBuilder) build(where Expr, limit int) (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT bag, title FROM (SELECT e.bag AS bag, e.title AS title, r.modified AS modified")
	for _, col := range b.columns {
		sb.WriteString(", ")
		sb.WriteString(col.expr.SQL)
		sb.WriteString(" AS ")
		sb.WriteString(col.name)
		args = append(args, col.expr.Args...)
	}
	sb.WriteString(" FROM entity e JOIN revision r ON r.id = e.current_revision")
	for _, j := range b.joins {
		sb.WriteString(" ")
		sb.WriteString(j)
	}

	sb.WriteString(" WHERE ")
	if where.vacuous() {
		sb.WriteString("1 = 1")
	} else {
		sb.WriteString(where.SQL)
		args = append(args, where.Args...)
	}
	sb.WriteString(") matches")

	if post := and(b.postFilters...); !post.vacuous() {
		sb.WriteString(" WHERE ")
		sb.WriteString(post.SQL)
		args = append(args, post.Args...)
	}
	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	return sb.String(), args
}
