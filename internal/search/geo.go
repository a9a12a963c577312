package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aidanlsb/sift/internal/geo"
)

const (
	earthRadius = geo.EarthRadius

	latitudeField  = "geo.lat"
	longitudeField = "geo.long"
)

// nearLeaf compiles near:lat,long,radius. Each use joins its own pair of
// coordinate field instances and adds a distance column that is filtered
// by radius and ordered nearest first.
func nearLeaf(s *compileState, l leaf, _ mode) (Expr, error) {
	lat, long, radius, err := parseNear(l.raw)
	if err != nil {
		return Expr{}, &MalformedValueError{Field: l.field, Value: l.raw, Reason: err.Error()}
	}

	latRef := s.bindings.fresh(kindField)
	longRef := s.bindings.fresh(kindField)

	column := "greatcircle"
	if s.nearCount > 0 {
		column = fmt.Sprintf("greatcircle_%d", s.nearCount)
	}
	s.nearCount++

	s.sel.addColumn(column, s.dialect.Distance(latRef.column("value"), longRef.column("value"), lat, long))
	s.sel.addPostFilter(cond(column+" < ?", radius))
	s.sel.addOrder(column + " ASC")

	return and(
		cond(latRef.column("name")+" = ?", latitudeField),
		cond(longRef.column("name")+" = ?", longitudeField),
	), nil
}

func parseNear(raw string) (lat, long, radius float64, err error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("expected lat,long,radius, got %d components", len(parts))
	}
	var vals [3]float64
	for i, p := range parts {
		vals[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("component %d is not a number: %q", i+1, p)
		}
	}
	return vals[0], vals[1], vals[2], nil
}
