package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aidanlsb/sift/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	stored, err := s.Put(ctx, &model.Entity{
		Bag:    "bag1",
		Title:  "tiddler1",
		Text:   "oh hello i chrisdent have nothing to say here you know",
		Tags:   []string{"pear", "apple", "orange", "apple"},
		Fields: map[string]string{"house": "cottage"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, stored.Revision)
	require.Len(t, stored.Modified, len(model.ModifiedLayout))
	require.Equal(t, []string{"apple", "orange", "pear"}, stored.Tags)

	got, err := s.Get(ctx, "bag1", "tiddler1")
	require.NoError(t, err)
	require.Equal(t, stored.Text, got.Text)
	require.Equal(t, []string{"apple", "orange", "pear"}, got.Tags)
	require.Equal(t, map[string]string{"house": "cottage"}, got.Fields)
	require.Equal(t, 1, got.Revision)
}

func TestPutCreatesRevisions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i, house := range []string{"cottage", "mansion", "barn"} {
		e, err := s.Put(ctx, &model.Entity{
			Bag: "bag1", Title: "revised",
			Fields: map[string]string{"house": house},
		})
		require.NoError(t, err)
		require.Equal(t, i+1, e.Revision)
	}

	got, err := s.Get(ctx, "bag1", "revised")
	require.NoError(t, err)
	require.Equal(t, "barn", got.Fields["house"])
	require.Equal(t, 3, got.Revision)

	revs, err := s.Revisions(ctx, "bag1", "revised")
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, revs)
}

func TestPutSetsModified(t *testing.T) {
	s := openTestStore(t)
	fixed := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	e, err := s.Put(context.Background(), &model.Entity{Bag: "b", Title: "t"})
	require.NoError(t, err)
	require.Equal(t, "20240309140507", e.Modified)

	e, err = s.Put(context.Background(), &model.Entity{Bag: "b", Title: "t", Modified: "19991231235959"})
	require.NoError(t, err)
	require.Equal(t, "19991231235959", e.Modified)
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "nope", "nothing")
	require.ErrorIs(t, err, ErrEntityNotFound)

	_, err = s.Revisions(context.Background(), "nope", "nothing")
	require.ErrorIs(t, err, ErrEntityNotFound)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := s.Put(ctx, &model.Entity{Bag: "b", Title: "gone", Tags: []string{"x"}, Text: "alpha"})
		require.NoError(t, err)
	}
	_, err := s.Put(ctx, &model.Entity{Bag: "b", Title: "kept", Tags: []string{"x"}})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "b", "gone"))
	_, err = s.Get(ctx, "b", "gone")
	require.ErrorIs(t, err, ErrEntityNotFound)
	require.ErrorIs(t, s.Delete(ctx, "b", "gone"), ErrEntityNotFound)

	var tagRows, textRows int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM tag`).Scan(&tagRows))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM entity_text`).Scan(&textRows))
	require.Equal(t, 1, tagRows)
	require.Equal(t, 1, textRows)

	_, err = s.Get(ctx, "b", "kept")
	require.NoError(t, err)
}

func TestValidateSizes(t *testing.T) {
	tests := []struct {
		name   string
		entity model.Entity
		column string
	}{
		{name: "title", entity: model.Entity{Bag: "b", Title: strings.Repeat("t", 129)}, column: "title"},
		{name: "bag", entity: model.Entity{Bag: strings.Repeat("b", 129), Title: "t"}, column: "bag"},
		{name: "modifier", entity: model.Entity{Bag: "b", Title: "t", Modifier: strings.Repeat("m", 129)}, column: "modifier"},
		{name: "type", entity: model.Entity{Bag: "b", Title: "t", Type: "text/" + strings.Repeat("x", 124)}, column: "type"},
		{name: "tag", entity: model.Entity{Bag: "b", Title: "t", Tags: []string{strings.Repeat("x", 192)}}, column: "tag"},
		{name: "field value", entity: model.Entity{Bag: "b", Title: "t", Fields: map[string]string{"f": strings.Repeat("v", 192)}}, column: "field f"},
	}

	s := openTestStore(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Put(context.Background(), &tt.entity)
			require.ErrorIs(t, err, ErrValueTooLarge)
			var tooLarge *ValueTooLargeError
			require.True(t, errors.As(err, &tooLarge))
			require.Equal(t, tt.column, tooLarge.Column)
		})
	}

	// Limits count characters, not bytes.
	ok := model.Entity{Bag: "b", Title: strings.Repeat("é", 128), Modifier: strings.Repeat("m", 128)}
	require.NoError(t, Validate(&ok))

	_, err := s.Get(context.Background(), "b", "t")
	require.ErrorIs(t, err, ErrEntityNotFound, "rejected writes must not be committed")
}

func TestClassifyWriteError(t *testing.T) {
	err := classifyWriteError(&mysql.MySQLError{Number: 1406, Message: "Data too long for column 'title' at row 1"})
	require.ErrorIs(t, err, ErrValueTooLarge)
	var tooLarge *ValueTooLargeError
	require.True(t, errors.As(err, &tooLarge))
	require.Equal(t, "title", tooLarge.Column)

	other := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	require.Equal(t, error(other), classifyWriteError(other))
}

func TestIsDeadConn(t *testing.T) {
	require.True(t, isDeadConn(mysql.ErrInvalidConn))
	require.True(t, isDeadConn(&mysql.MySQLError{Number: 2006}))
	require.True(t, isDeadConn(&mysql.MySQLError{Number: 2013}))
	require.False(t, isDeadConn(&mysql.MySQLError{Number: 1064}))
	require.False(t, isDeadConn(errors.New("syntax error")))
}

func TestBeginReadRetriesDeadConnection(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	s := newStore(db, "mysql", zap.NewNop())

	mock.ExpectPing().WillReturnError(mysql.ErrInvalidConn)
	mock.ExpectPing()
	mock.ExpectBegin()

	tx, err := s.BeginRead(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tx)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginReadGivesUpAfterOneRetry(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	s := newStore(db, "mysql", zap.NewNop())

	mock.ExpectPing().WillReturnError(mysql.ErrInvalidConn)
	mock.ExpectPing().WillReturnError(mysql.ErrInvalidConn)

	_, err = s.BeginRead(context.Background())
	require.ErrorIs(t, err, mysql.ErrInvalidConn)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginReadDoesNotRetryOtherErrors(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	s := newStore(db, "mysql", zap.NewNop())
	denied := &mysql.MySQLError{Number: 1045, Message: "Access denied"}
	mock.ExpectPing().WillReturnError(denied)

	_, err = s.BeginRead(context.Background())
	require.ErrorIs(t, err, denied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteDSN(t *testing.T) {
	require.Equal(t,
		":memory:?_pragma=case_sensitive_like(1)&_pragma=busy_timeout(5000)",
		sqliteDSN(":memory:"))
	require.Equal(t,
		"/tmp/sift.db?_pragma=case_sensitive_like(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		sqliteDSN("/tmp/sift.db"))
}

func TestGreatCircleFunction(t *testing.T) {
	s := openTestStore(t)
	var d float64
	require.NoError(t, s.db.QueryRow(`SELECT greatcircle(0, 0, '1', 0)`).Scan(&d))
	require.InDelta(t, 111194.93, d, 1)

	var null *float64
	require.NoError(t, s.db.QueryRow(`SELECT greatcircle(0, 0, 'north', 0)`).Scan(&null))
	require.Nil(t, null)
}

func TestList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Empty(t, items)

	for _, id := range [][2]string{{"b", "two"}, {"a", "one"}, {"b", "one"}} {
		_, err := s.Put(ctx, &model.Entity{Bag: id[0], Title: id[1]})
		require.NoError(t, err)
	}
	_, err = s.Put(ctx, &model.Entity{Bag: "b", Title: "two", Text: "again"})
	require.NoError(t, err)

	items, err = s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.ResultItem{
		{Bag: "a", Title: "one"},
		{Bag: "b", Title: "one"},
		{Bag: "b", Title: "two"},
	}, items)
}
