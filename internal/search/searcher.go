// Package search compiles parsed search queries into SQL over the entity
// store's relational schema and executes them.
package search

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/aidanlsb/sift/internal/query"
)

// Beginner opens the read transaction a search runs in.
type Beginner interface {
	BeginRead(ctx context.Context) (*sql.Tx, error)
}

// Searcher runs searches against a store.
type Searcher struct {
	db       Beginner
	compiler *Compiler
	log      *zap.Logger
}

// NewSearcher creates a searcher. A nil logger discards output.
func NewSearcher(db Beginner, compiler *Compiler, log *zap.Logger) *Searcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Searcher{db: db, compiler: compiler, log: log}
}

// Compile parses and compiles q without executing it.
func (s *Searcher) Compile(q string) (*Statement, error) {
	node, err := parse(q)
	if err != nil {
		return nil, err
	}
	return s.compiler.Compile(node)
}

// Search parses q and runs it.
func (s *Searcher) Search(ctx context.Context, q string) (*Results, error) {
	node, err := parse(q)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, node)
}

// Run compiles and executes an already parsed query. Compilation errors
// are returned before any transaction is opened.
func (s *Searcher) Run(ctx context.Context, node query.Node) (*Results, error) {
	stmt, err := s.compiler.Compile(node)
	if err != nil {
		return nil, err
	}
	s.log.Debug("search compiled",
		zap.String("sql", stmt.SQL),
		zap.Any("args", stmt.Args),
		zap.Int("limit", stmt.Limit),
	)

	tx, err := s.db.BeginRead(ctx)
	if err != nil {
		return nil, &ExecError{SQL: stmt.SQL, Err: err}
	}
	rows, err := tx.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		rollback(tx, s.log, err)
		return nil, &ExecError{SQL: stmt.SQL, Err: err}
	}
	return &Results{tx: tx, rows: rows, sql: stmt.SQL, log: s.log}, nil
}

func parse(q string) (query.Node, error) {
	node, err := query.Parse(q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return node, nil
}

func rollback(tx *sql.Tx, log *zap.Logger, cause error) {
	log.Warn("rolling back search", zap.Error(cause))
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		log.Warn("rollback failed", zap.Error(err))
	}
}
