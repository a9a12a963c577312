package search

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/sift/internal/query"
)

// Options configures compilation.
type Options struct {
	// DefaultLimit bounds queries without a _limit field.
	DefaultLimit int
	// NearLimit bounds proximity queries without a valid _limit.
	NearLimit int
	// StrictLimit makes a non-numeric _limit a malformed value instead of
	// being ignored.
	StrictLimit bool
}

const (
	defaultLimit     = 20
	defaultNearLimit = 20
)

// Compiler turns search ASTs into SQL. It holds no per-query state and is
// safe for concurrent use.
type Compiler struct {
	dialect Dialect
	opts    Options
}

// NewCompiler creates a compiler for dialect. Zero limits fall back to 20.
func NewCompiler(dialect Dialect, opts Options) *Compiler {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaultLimit
	}
	if opts.NearLimit <= 0 {
		opts.NearLimit = defaultNearLimit
	}
	return &Compiler{dialect: dialect, opts: opts}
}

// Dialect returns the compiler's dialect.
func (c *Compiler) Dialect() Dialect {
	return c.dialect
}

// Statement is a compiled search.
type Statement struct {
	SQL  string
	Args []any
	// Limit is the row bound applied, zero when unbounded.
	Limit int
}

// Compile compiles root into a statement selecting (bag, title) pairs.
func (c *Compiler) Compile(root query.Node) (*Statement, error) {
	s := newCompileState(c.dialect, c.opts)
	where, err := s.eval(root, "", modeBare)
	if err != nil {
		return nil, err
	}

	// Without any _limit the default limit applies as though one had been
	// written, recency ordering included.
	if !s.limitSeen {
		s.sel.addOrder(recencyOrder)
	}
	limit := s.effectiveLimit()
	sqlText, args := s.sel.build(where, limit)
	return &Statement{SQL: sqlText, Args: args, Limit: limit}, nil
}

// compileState is the mutable state of one compilation.
type compileState struct {
	dialect  Dialect
	opts     Options
	sel      *selectBuilder
	bindings *bindingRegistry

	limit     int
	limitSeen bool
	nearCount int
}

func newCompileState(dialect Dialect, opts Options) *compileState {
	sel := &selectBuilder{}
	return &compileState{
		dialect:  dialect,
		opts:     opts,
		sel:      sel,
		bindings: newBindingRegistry(dialect, sel),
	}
}

func (s *compileState) effectiveLimit() int {
	switch {
	case s.limit > 0:
		return s.limit
	case s.nearCount > 0:
		return s.opts.NearLimit
	case !s.limitSeen:
		return s.opts.DefaultLimit
	default:
		return 0
	}
}

// eval compiles n. field is the enclosing Field's name, empty outside one.
// m is the mode the node's parent evaluates it in; combinators pick the
// mode for their own children.
func (s *compileState) eval(n query.Node, field string, m mode) (Expr, error) {
	switch n := n.(type) {
	case *query.Toplevel:
		return s.evalSequence(n.Children, field, m)
	case *query.Group:
		if field != "" {
			return s.leaf(field, groupLiteral(n), m)
		}
		return s.evalSequence(n.Children, field, m)
	case *query.And:
		return s.evalAll(n.Children, field, modeConjunction, and)
	case *query.Or:
		return s.evalAll(n.Children, field, modeDisjunction, or)
	case *query.Not:
		e, err := s.evalAll(n.Children, field, modeNegation, and)
		if err != nil {
			return Expr{}, err
		}
		return not(e), nil
	case *query.Field:
		return s.eval(n.Value, n.Name, m)
	case *query.Word:
		return s.leaf(field, n.Token, m)
	case *query.Quotes:
		if isFullTextField(field) {
			return s.leaf(field, `"`+n.Token+`"`, m)
		}
		return s.leaf(field, n.Token, m)
	case nil:
		return trueExpr, nil
	default:
		return Expr{}, fmt.Errorf("unsupported search node %T", n)
	}
}

// evalSequence folds adjacent expressions with AND. Adjacency is a
// conjunction, so a lone child keeps its parent's mode.
func (s *compileState) evalSequence(children []query.Node, field string, m mode) (Expr, error) {
	if len(children) > 1 {
		m = modeConjunction
	}
	return s.evalAll(children, field, m, and)
}

func (s *compileState) evalAll(children []query.Node, field string, m mode, fold func(...Expr) Expr) (Expr, error) {
	exprs := make([]Expr, 0, len(children))
	for _, child := range children {
		e, err := s.eval(child, field, m)
		if err != nil {
			return Expr{}, err
		}
		exprs = append(exprs, e)
	}
	return fold(exprs...), nil
}

// groupLiteral rebuilds a parenthesized field value such as
// title:(Hello World) into the literal "(Hello World)".
func groupLiteral(g *query.Group) string {
	parts := make([]string, 0, len(g.Children))
	for _, child := range g.Children {
		parts = append(parts, query.Format(child))
	}
	return "(" + strings.Join(parts, " ") + ")"
}
