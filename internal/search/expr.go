package search

import "strings"

// Expr is a compiled SQL boolean expression and its positional arguments.
// The zero Expr is vacuously true and disappears when combined.
type Expr struct {
	SQL  string
	Args []any
}

var trueExpr = Expr{}

func (e Expr) vacuous() bool {
	return e.SQL == ""
}

func cond(sql string, args ...any) Expr {
	return Expr{SQL: sql, Args: args}
}

func and(exprs ...Expr) Expr {
	return joinExprs(" AND ", exprs)
}

func or(exprs ...Expr) Expr {
	return joinExprs(" OR ", exprs)
}

// not negates e. Negating a vacuous expression yields a vacuous expression.
func not(e Expr) Expr {
	if e.vacuous() {
		return trueExpr
	}
	return Expr{SQL: "NOT (" + e.SQL + ")", Args: e.Args}
}

func joinExprs(sep string, exprs []Expr) Expr {
	var parts []string
	var args []any
	var last Expr
	for _, e := range exprs {
		if e.vacuous() {
			continue
		}
		parts = append(parts, e.SQL)
		args = append(args, e.Args...)
		last = e
	}
	switch len(parts) {
	case 0:
		return trueExpr
	case 1:
		return last
	default:
		return Expr{SQL: "(" + strings.Join(parts, sep) + ")", Args: args}
	}
}
