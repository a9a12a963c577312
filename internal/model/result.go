package model

// ResultItem identifies one search match. Callers resolve the full entity
// separately.
type ResultItem struct {
	Bag   string `json:"bag"`
	Title string `json:"title"`
}

// ID returns the "bag:title" identifier of the match.
func (r ResultItem) ID() string { return r.Bag + ":" + r.Title }
