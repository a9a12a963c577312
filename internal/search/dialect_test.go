package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("sqlite")
	require.NoError(t, err)
	require.Equal(t, "sqlite", d.Name())

	d, err = DialectFor("mysql")
	require.NoError(t, err)
	require.Equal(t, "mysql", d.Name())

	_, err = DialectFor("postgres")
	require.Error(t, err)
}

func TestMySQLFragments(t *testing.T) {
	d := MySQL{}
	require.Equal(t,
		Expr{SQL: "MATCH(tx0.body) AGAINST (? IN BOOLEAN MODE)", Args: []any{`+apple "pear tree"`}},
		d.Match("tx0", `+apple "pear tree"`))
	require.Equal(t,
		Expr{SQL: `tg0.tag LIKE ? ESCAPE '\\'`, Args: []any{`50\%%`}},
		d.Like("tg0.tag", `50\%%`))

	dist := d.Distance("fd0.value", "fd1.value", 51.5, -0.12)
	require.Equal(t, []any{51.5, 51.5, -0.12}, dist.Args)
	require.Contains(t, dist.SQL, "2 * 6371000 * ASIN(")
	require.Contains(t, dist.SQL, "RADIANS(fd0.value - ?)")
	require.Contains(t, dist.SQL, "RADIANS(fd1.value - ?)")
}

func TestSQLiteFragments(t *testing.T) {
	d := SQLite{}
	require.Equal(t,
		Expr{SQL: "tx0.rowid IN (SELECT rowid FROM entity_text WHERE entity_text MATCH ?)", Args: []any{`"apple" OR "pear"`}},
		d.Match("tx0", "apple pear"))
	require.Equal(t,
		Expr{SQL: `e.title LIKE ? ESCAPE '\'`, Args: []any{"Get%"}},
		d.Like("e.title", "Get%"))
	require.Equal(t,
		Expr{SQL: "greatcircle(?, ?, fd0.value, fd1.value)", Args: []any{1.0, 2.0}},
		d.Distance("fd0.value", "fd1.value", 1, 2))
}

func TestEscapeLikePattern(t *testing.T) {
	require.Equal(t, `100\% a\_b c\\d`, escapeLikePattern(`100% a_b c\d`))
}
