package search

import (
	"strconv"
	"strings"
)

// leafBuilder compiles a single field:value constraint.
type leafBuilder func(s *compileState, l leaf, m mode) (Expr, error)

// reservedFields maps every reserved field name to its builder. The empty
// name is a bare full-text term. Any other name is a generic field.
var reservedFields = map[string]leafBuilder{
	"":         fullTextLeaf,
	"text":     fullTextLeaf,
	"ftitle":   entityColumnLeaf("title"),
	"title":    entityColumnLeaf("title"),
	"fbag":     entityColumnLeaf("bag"),
	"bag":      entityColumnLeaf("bag"),
	"id":       idLeaf,
	"tag":      tagLeaf,
	"modifier": revisionLeaf("modifier"),
	"modified": revisionLeaf("modified"),
	"type":     revisionLeaf("type"),
	"near":     nearLeaf,
	"_limit":   limitLeaf,
}

func isFullTextField(field string) bool {
	return field == "" || field == "text"
}

// leaf is a value token under a field name. A trailing '*' on the raw
// value selects prefix matching on value.
type leaf struct {
	field  string
	raw    string
	value  string
	prefix bool
}

func newLeaf(field, raw string) leaf {
	l := leaf{field: field, raw: raw, value: raw}
	if strings.HasSuffix(raw, "*") {
		l.value = strings.TrimSuffix(raw, "*")
		l.prefix = true
	}
	return l
}

func (s *compileState) leaf(field, raw string, m mode) (Expr, error) {
	l := newLeaf(field, raw)
	if build, ok := reservedFields[field]; ok {
		return build(s, l, m)
	}
	return genericFieldLeaf(s, l, m)
}

// compare matches column against the leaf's value, exactly or by prefix.
func (s *compileState) compare(column string, l leaf) Expr {
	if l.prefix {
		return s.dialect.Like(column, escapeLikePattern(l.value)+"%")
	}
	return cond(column+" = ?", l.value)
}

// escapeLikePattern escapes special characters for LIKE pattern matching.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func fullTextLeaf(s *compileState, l leaf, m mode) (Expr, error) {
	ref := s.bindings.acquire(kindText, m)
	return s.dialect.Match(ref.alias, l.raw), nil
}

func entityColumnLeaf(column string) leafBuilder {
	return func(s *compileState, l leaf, _ mode) (Expr, error) {
		return s.compare("e."+column, l), nil
	}
}

func idLeaf(_ *compileState, l leaf, _ mode) (Expr, error) {
	bag, title, ok := strings.Cut(l.raw, ":")
	if !ok {
		return Expr{}, &MalformedValueError{Field: l.field, Value: l.raw, Reason: "expected bag:title"}
	}
	return and(cond("e.bag = ?", bag), cond("e.title = ?", title)), nil
}

func tagLeaf(s *compileState, l leaf, m mode) (Expr, error) {
	ref := s.bindings.acquire(kindTag, m)
	return s.compare(ref.column("tag"), l), nil
}

func revisionLeaf(column string) leafBuilder {
	return func(s *compileState, l leaf, m mode) (Expr, error) {
		ref := s.bindings.acquire(kindRevision, m)
		return s.compare(ref.column(column), l), nil
	}
}

func genericFieldLeaf(s *compileState, l leaf, m mode) (Expr, error) {
	ref := s.bindings.acquire(kindField, m)
	return and(cond(ref.column("name")+" = ?", l.field), s.compare(ref.column("value"), l)), nil
}

// limitLeaf records an explicit result bound. It always orders by recency
// and contributes no predicate.
func limitLeaf(s *compileState, l leaf, _ mode) (Expr, error) {
	s.limitSeen = true
	s.sel.addOrder(recencyOrder)

	n, err := strconv.Atoi(strings.TrimSpace(l.raw))
	if err != nil || n <= 0 {
		if s.opts.StrictLimit {
			return Expr{}, &MalformedValueError{Field: l.field, Value: l.raw, Reason: "expected a positive integer"}
		}
		return trueExpr, nil
	}
	s.limit = n
	return trueExpr, nil
}
