package search

import (
	"database/sql"
	"iter"

	"go.uber.org/zap"

	"github.com/aidanlsb/sift/internal/model"
)

// Results is a forward-only cursor over search matches. It must be
// exhausted or closed to release its transaction.
//
//	res, err := s.Search(ctx, "tag:apple")
//	...
//	defer res.Close()
//	for res.Next() {
//		item := res.Item()
//	}
//	err = res.Err()
type Results struct {
	tx   *sql.Tx
	rows *sql.Rows
	sql  string
	log  *zap.Logger

	item model.ResultItem
	err  error
	done bool
}

// Next advances to the next match. It returns false when the matches are
// exhausted or an error occurred; see Err.
func (r *Results) Next() bool {
	if r.done {
		return false
	}
	if r.rows.Next() {
		if err := r.rows.Scan(&r.item.Bag, &r.item.Title); err != nil {
			r.fail(err)
			return false
		}
		return true
	}
	if err := r.rows.Err(); err != nil {
		r.fail(err)
		return false
	}
	r.done = true
	if err := r.rows.Close(); err != nil {
		r.fail(err)
		return false
	}
	if err := r.tx.Commit(); err != nil {
		r.err = &ExecError{SQL: r.sql, Err: err}
	}
	return false
}

// Item returns the current match.
func (r *Results) Item() model.ResultItem {
	return r.item
}

// Err returns the error that ended iteration, if any.
func (r *Results) Err() error {
	return r.err
}

// Close releases the cursor. Closing before exhaustion rolls back the
// read transaction.
func (r *Results) Close() error {
	if r.done {
		return nil
	}
	r.done = true
	closeErr := r.rows.Close()
	if err := r.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return err
	}
	return closeErr
}

// All returns an iterator over the remaining matches. A failure is yielded
// once as the final pair. The cursor is closed when iteration stops.
func (r *Results) All() iter.Seq2[model.ResultItem, error] {
	return func(yield func(model.ResultItem, error) bool) {
		defer r.Close()
		for r.Next() {
			if !yield(r.Item(), nil) {
				return
			}
		}
		if err := r.Err(); err != nil {
			yield(model.ResultItem{}, err)
		}
	}
}

// Collect drains the cursor into a slice.
func (r *Results) Collect() ([]model.ResultItem, error) {
	var items []model.ResultItem
	for item, err := range r.All() {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Results) fail(err error) {
	r.done = true
	_ = r.rows.Close()
	rollback(r.tx, r.log, err)
	r.err = &ExecError{SQL: r.sql, Err: err}
}
