package search

import (
	"strings"
)

// ftsQuery translates a boolean-mode full-text value into an FTS5 query
// expression.
//
// Terms marked '+' are required and '-' excluded. Without required terms
// any of the remaining terms may match. Quoted phrases stay phrases and a
// trailing '*' stays a prefix marker.
func ftsQuery(value string) string {
	var required, optional, excluded []string
	for _, term := range splitBooleanTerms(value) {
		op := byte(0)
		if term != "" && (term[0] == '+' || term[0] == '-') {
			op = term[0]
			term = term[1:]
		}
		term = strings.TrimLeft(term, "~<>")
		q := quoteFTSTerm(term)
		if q == "" {
			continue
		}
		switch op {
		case '+':
			required = append(required, q)
		case '-':
			excluded = append(excluded, q)
		default:
			optional = append(optional, q)
		}
	}

	var expr string
	switch {
	case len(required) > 0:
		expr = strings.Join(required, " AND ")
	case len(optional) > 0:
		expr = strings.Join(optional, " OR ")
	default:
		return `""`
	}
	if len(excluded) > 0 {
		expr = "(" + expr + ") NOT " + strings.Join(excluded, " NOT ")
	}
	return expr
}

// splitBooleanTerms splits on whitespace, keeping double-quoted phrases
// (with an optional leading operator) together.
func splitBooleanTerms(value string) []string {
	var terms []string
	var cur strings.Builder
	inQuote := false
	for _, r := range value {
		switch {
		case r == '"':
			cur.WriteRune(r)
			inQuote = !inQuote
		case !inQuote && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			if cur.Len() > 0 {
				terms = append(terms, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		terms = append(terms, cur.String())
	}
	return terms
}

// quoteFTSTerm renders a term as an FTS5 string, so punctuation such as
// hyphens is handed to the tokenizer instead of the query syntax.
func quoteFTSTerm(term string) string {
	prefix := false
	if strings.HasSuffix(term, "*") {
		prefix = true
		term = strings.TrimRight(term, "*")
	}
	term = strings.Trim(term, `"`)
	term = strings.ReplaceAll(term, `"`, "")
	if strings.TrimSpace(term) == "" {
		return ""
	}
	q := `"` + term + `"`
	if prefix {
		q += "*"
	}
	return q
}
