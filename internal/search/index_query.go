package search

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode"

	"github.com/aidanlsb/sift/internal/model"
)

// Fetcher loads full entities by identifier.
type Fetcher interface {
	Get(ctx context.Context, bag, title string) (*model.Entity, error)
}

// IndexQuery finds the entities matching every field=value pair exactly
// and loads them through f.
//
// The lookup is refused with ErrIndexRefused when a value contains a double
// quote, which the query language cannot escape, or when the search itself
// fails. Callers are expected to fall back to scanning.
func (s *Searcher) IndexQuery(ctx context.Context, f Fetcher, constraints map[string]string) ([]*model.Entity, error) {
	q, err := IndexQueryString(constraints)
	if err != nil {
		return nil, err
	}

	res, err := s.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexRefused, err)
	}
	// Identifiers are collected before fetching so the read transaction is
	// finished before the fetcher needs a connection.
	items, err := res.Collect()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexRefused, err)
	}

	entities := make([]*model.Entity, 0, len(items))
	for _, item := range items {
		e, err := f.Get(ctx, item.Bag, item.Title)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", item.ID(), err)
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// MatchEntity reports whether e satisfies every field=value pair the way
// IndexQuery would: a trailing '*' matches by prefix and text is matched
// as a phrase. It is the scanning counterpart of IndexQuery for lookups
// the index refuses.
func MatchEntity(e *model.Entity, constraints map[string]string) bool {
	for k, v := range constraints {
		if !matchField(e, k, v) {
			return false
		}
	}
	return true
}

func matchField(e *model.Entity, name, value string) bool {
	switch name {
	case "id":
		return e.ID() == value
	case "bag", "fbag":
		return matchValue(e.Bag, value)
	case "title", "ftitle":
		return matchValue(e.Title, value)
	case "modifier":
		return matchValue(e.Modifier, value)
	case "modified":
		return matchValue(e.Modified, value)
	case "type":
		return matchValue(e.Type, value)
	case "text":
		return matchText(e.Text, value)
	case "tag":
		for _, tag := range e.Tags {
			if matchValue(tag, value) {
				return true
			}
		}
		return false
	default:
		got, ok := e.Fields[name]
		return ok && matchValue(got, value)
	}
}

// matchValue compares like Compiler's leaves: exactly, or by prefix when
// value ends in '*'.
func matchValue(got, value string) bool {
	if prefix, ok := strings.CutSuffix(value, "*"); ok {
		return strings.HasPrefix(got, prefix)
	}
	return got == value
}

// matchText matches value as one phrase, as IndexQuery quotes it: words
// compare case-insensitively and must appear consecutively in text.
func matchText(text, value string) bool {
	phrase := textWords(value)
	return len(phrase) > 0 && containsPhrase(textWords(text), phrase)
}

// textWords lowercases s and splits it into letter and digit runs, close
// to what the full-text tokenizers index.
func textWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsPhrase(words, phrase []string) bool {
	for i := 0; i+len(phrase) <= len(words); i++ {
		if slices.Equal(words[i:i+len(phrase)], phrase) {
			return true
		}
	}
	return false
}

// IndexQueryString renders constraints as a conjunctive query of quoted
// values, k1:"v1" AND k2:"v2", with keys in sorted order.
func IndexQueryString(constraints map[string]string) (string, error) {
	keys := make([]string, 0, len(constraints))
	for k := range constraints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := constraints[k]
		if strings.Contains(v, `"`) {
			return "", fmt.Errorf("%w: value for %q contains a double quote", ErrIndexRefused, k)
		}
		parts = append(parts, fmt.Sprintf(`%s:"%s"`, k, v))
	}
	return strings.Join(parts, " AND "), nil
}
