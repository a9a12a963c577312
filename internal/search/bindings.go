package search

import "fmt"

// relationKind names a relation hanging off an entity's current revision.
type relationKind int

const (
	kindTag relationKind = iota
	kindField
	kindRevision
	kindText
)

func (k relationKind) String() string {
	switch k {
	case kindTag:
		return "tag"
	case kindField:
		return "field"
	case kindRevision:
		return "revision"
	case kindText:
		return "text"
	default:
		return fmt.Sprintf("relationKind(%d)", int(k))
	}
}

func (k relationKind) aliasPrefix() string {
	switch k {
	case kindTag:
		return "tg"
	case kindField:
		return "fd"
	case kindRevision:
		return "rv"
	default:
		return "tx"
	}
}

// mode is the boolean context a leaf is evaluated in.
type mode int

const (
	modeBare mode = iota
	modeConjunction
	modeDisjunction
	modeNegation
)

func (m mode) String() string {
	switch m {
	case modeConjunction:
		return "conjunction"
	case modeDisjunction:
		return "disjunction"
	case modeNegation:
		return "negation"
	default:
		return "bare"
	}
}

// relationRef is one joined instance of a relation.
type relationRef struct {
	kind       relationKind
	generation int
	alias      string
}

// column qualifies name with the relation's alias.
func (r relationRef) column(name string) string {
	return r.alias + "." + name
}

// bindingRegistry tracks the relation instances joined into one
// compilation, keyed by kind and alias generation.
//
// Under conjunction every reference gets its own instance, so each AND-ed
// constraint may be satisfied by a different row. Any other reference
// reuses the kind's shared instance. The revision relation starts out
// shared as the base alias r.
type bindingRegistry struct {
	dialect Dialect
	sel     *selectBuilder
	shared  map[relationKind]relationRef
	next    map[relationKind]int
}

func newBindingRegistry(dialect Dialect, sel *selectBuilder) *bindingRegistry {
	return &bindingRegistry{
		dialect: dialect,
		sel:     sel,
		shared: map[relationKind]relationRef{
			kindRevision: {kind: kindRevision, generation: 0, alias: "r"},
		},
		next: map[relationKind]int{kindRevision: 1},
	}
}

// acquire returns the relation instance a leaf of kind evaluated in mode
// must constrain, joining a new one when required. The full-text relation
// is only ever bound once.
func (b *bindingRegistry) acquire(kind relationKind, m mode) relationRef {
	if ref, ok := b.shared[kind]; ok && (kind == kindText || m != modeConjunction) {
		return ref
	}
	if m == modeConjunction && kind != kindText {
		return b.fresh(kind)
	}
	ref := b.fresh(kind)
	b.shared[kind] = ref
	return ref
}

// fresh joins a new private instance of kind.
func (b *bindingRegistry) fresh(kind relationKind) relationRef {
	gen := b.next[kind]
	b.next[kind] = gen + 1
	ref := relationRef{
		kind:       kind,
		generation: gen,
		alias:      fmt.Sprintf("%s%d", kind.aliasPrefix(), gen),
	}
	b.sel.addJoin(b.joinClause(ref))
	return ref
}

func (b *bindingRegistry) joinClause(ref relationRef) string {
	switch ref.kind {
	case kindTag:
		return fmt.Sprintf("LEFT JOIN tag %s ON %s.revision_id = e.current_revision", ref.alias, ref.alias)
	case kindField:
		return fmt.Sprintf("LEFT JOIN field %s ON %s.revision_id = e.current_revision", ref.alias, ref.alias)
	case kindRevision:
		return fmt.Sprintf("JOIN revision %s ON %s.id = e.current_revision", ref.alias, ref.alias)
	default:
		return b.dialect.TextJoin(ref.alias)
	}
}
