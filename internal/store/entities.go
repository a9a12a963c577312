package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/aidanlsb/sift/internal/model"
	"github.com/aidanlsb/sift/internal/parser"
	"github.com/aidanlsb/sift/internal/sqlutil"
)

// now is replaced in tests.
var now = time.Now

// Validate checks e against the column size limits.
func Validate(e *model.Entity) error {
	if e.Bag == "" || e.Title == "" {
		return fmt.Errorf("entity needs both a bag and a title")
	}
	if err := checkLength("title", e.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := checkLength("bag", e.Bag, MaxBagLength); err != nil {
		return err
	}
	if err := checkLength("modifier", e.Modifier, MaxModifierLength); err != nil {
		return err
	}
	if err := checkLength("type", e.Type, MaxTypeLength); err != nil {
		return err
	}
	for _, tag := range e.Tags {
		if err := checkLength("tag", tag, MaxTagLength); err != nil {
			return err
		}
	}
	for name, value := range e.Fields {
		if err := checkLength("field name", name, MaxFieldNameLength); err != nil {
			return err
		}
		if err := checkLength("field "+name, value, MaxFieldValueLength); err != nil {
			return err
		}
	}
	return nil
}

func checkLength(column, value string, max int) error {
	if n := utf8.RuneCountInString(value); n > max {
		return &ValueTooLargeError{Column: column, Length: n, Max: max}
	}
	return nil
}

// Put stores e as a new revision of its entity and returns the stored
// revision. An empty Modified is set to the current time.
func (s *Store) Put(ctx context.Context, e *model.Entity) (*model.Entity, error) {
	if err := Validate(e); err != nil {
		return nil, err
	}

	stored := *e
	stored.Tags = uniqueSorted(e.Tags)
	stored.Fields = make(map[string]string, len(e.Fields))
	for k, v := range e.Fields {
		stored.Fields[k] = v
	}
	if stored.Modified == "" {
		stored.Modified = now().UTC().Format(model.ModifiedLayout)
	}

	err := s.retry(ctx, "put", func() error {
		return sqlutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
			return s.putRevision(ctx, tx, &stored)
		})
	})
	if err != nil {
		return nil, classifyWriteError(err)
	}

	s.log.Debug("entity stored",
		zap.String("id", stored.ID()),
		zap.Int("revision", stored.Revision),
	)
	return &stored, nil
}

func (s *Store) putRevision(ctx context.Context, tx *sql.Tx, e *model.Entity) error {
	if _, err := tx.ExecContext(ctx, s.stmts.ensureEntity, e.Bag, e.Title); err != nil {
		return fmt.Errorf("insert entity: %w", err)
	}
	var entityID int64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM entity WHERE bag = ? AND title = ?`, e.Bag, e.Title,
	).Scan(&entityID); err != nil {
		return fmt.Errorf("lookup entity: %w", err)
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number), 0) + 1 FROM revision WHERE entity_id = ?`, entityID,
	).Scan(&e.Revision); err != nil {
		return fmt.Errorf("next revision number: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO revision (entity_id, number, modifier, modified, type, text) VALUES (?, ?, ?, ?, ?, ?)`,
		entityID, e.Revision, e.Modifier, e.Modified, e.Type, e.Text,
	)
	if err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}
	revisionID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}

	for _, tag := range e.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tag (revision_id, tag) VALUES (?, ?)`, revisionID, tag,
		); err != nil {
			return fmt.Errorf("insert tag %q: %w", tag, err)
		}
	}
	for _, name := range e.FieldNames() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO field (revision_id, name, value) VALUES (?, ?, ?)`, revisionID, name, e.Fields[name],
		); err != nil {
			return fmt.Errorf("insert field %q: %w", name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, s.stmts.insertText, revisionID, parser.IndexText(e)); err != nil {
		return fmt.Errorf("index text: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE entity SET current_revision = ? WHERE id = ?`, revisionID, entityID,
	); err != nil {
		return fmt.Errorf("update current revision: %w", err)
	}
	return nil
}

// Get returns the current revision of the entity bag/title.
func (s *Store) Get(ctx context.Context, bag, title string) (*model.Entity, error) {
	e := &model.Entity{Bag: bag, Title: title}
	var revisionID int64
	err := s.retry(ctx, "get", func() error {
		return s.db.QueryRowContext(ctx, `
			SELECT r.id, r.number, r.modifier, r.modified, r.type, r.text
			FROM entity e
			JOIN revision r ON r.id = e.current_revision
			WHERE e.bag = ? AND e.title = ?`, bag, title,
		).Scan(&revisionID, &e.Revision, &e.Modifier, &e.Modified, &e.Type, &e.Text)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s:%s", ErrEntityNotFound, bag, title)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s:%s: %w", bag, title, err)
	}

	e.Tags, err = sqlutil.QueryStrings(ctx, s.db,
		`SELECT tag FROM tag WHERE revision_id = ? ORDER BY tag`, revisionID)
	if err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value FROM field WHERE revision_id = ?`, revisionID)
	if err != nil {
		return nil, fmt.Errorf("get fields: %w", err)
	}
	pairs, err := sqlutil.ScanRows(rows, func(rows *sql.Rows) ([2]string, error) {
		var p [2]string
		err := rows.Scan(&p[0], &p[1])
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("get fields: %w", err)
	}
	e.Fields = make(map[string]string, len(pairs))
	for _, p := range pairs {
		e.Fields[p[0]] = p[1]
	}
	return e, nil
}

// List returns the identifiers of every stored entity ordered by bag and
// title.
func (s *Store) List(ctx context.Context) ([]model.ResultItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bag, title FROM entity ORDER BY bag, title`)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	items, err := sqlutil.ScanRows(rows, func(rows *sql.Rows) (model.ResultItem, error) {
		var item model.ResultItem
		err := rows.Scan(&item.Bag, &item.Title)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	return items, nil
}

// Revisions returns the revision numbers of bag/title, oldest first.
func (s *Store) Revisions(ctx context.Context, bag, title string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.number
		FROM revision r
		JOIN entity e ON e.id = r.entity_id
		WHERE e.bag = ? AND e.title = ?
		ORDER BY r.number`, bag, title)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	numbers, err := sqlutil.ScanRows(rows, func(rows *sql.Rows) (int, error) {
		var n int
		err := rows.Scan(&n)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	if len(numbers) == 0 {
		return nil, fmt.Errorf("%w: %s:%s", ErrEntityNotFound, bag, title)
	}
	return numbers, nil
}

// Delete removes bag/title with all of its revisions.
func (s *Store) Delete(ctx context.Context, bag, title string) error {
	return sqlutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var entityID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM entity WHERE bag = ? AND title = ?`, bag, title,
		).Scan(&entityID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s:%s", ErrEntityNotFound, bag, title)
		}
		if err != nil {
			return fmt.Errorf("lookup entity: %w", err)
		}

		rows, err := tx.QueryContext(ctx, `SELECT id FROM revision WHERE entity_id = ?`, entityID)
		if err != nil {
			return fmt.Errorf("list revisions: %w", err)
		}
		revisionIDs, err := sqlutil.ScanRows(rows, func(rows *sql.Rows) (int64, error) {
			var id int64
			err := rows.Scan(&id)
			return id, err
		})
		if err != nil {
			return fmt.Errorf("list revisions: %w", err)
		}

		placeholders, args := sqlutil.InClauseArgs(revisionIDs)
		for _, stmt := range []string{
			fmt.Sprintf(s.stmts.deleteText, placeholders),
			fmt.Sprintf(`DELETE FROM tag WHERE revision_id IN (%s)`, placeholders),
			fmt.Sprintf(`DELETE FROM field WHERE revision_id IN (%s)`, placeholders),
		} {
			if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
				return fmt.Errorf("delete %s:%s: %w", bag, title, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM revision WHERE entity_id = ?`, entityID); err != nil {
			return fmt.Errorf("delete revisions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM entity WHERE id = ?`, entityID); err != nil {
			return fmt.Errorf("delete entity: %w", err)
		}
		return nil
	})
}

func uniqueSorted(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := append([]string(nil), items...)
	sort.Strings(out)
	n := 0
	for i, item := range out {
		if i == 0 || item != out[n-1] {
			out[n] = item
			n++
		}
	}
	return out[:n]
}
