package search

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/sift/internal/query"
)

const (
	selectPrefix = "SELECT bag, title FROM (SELECT e.bag AS bag, e.title AS title, r.modified AS modified"
	fromBase     = " FROM entity e JOIN revision r ON r.id = e.current_revision"
	byRecency    = ") matches ORDER BY modified DESC LIMIT ?"
)

func compile(t *testing.T, opts Options, q string) *Statement {
	t.Helper()
	node, err := query.Parse(q)
	require.NoError(t, err)
	stmt, err := NewCompiler(SQLite{}, opts).Compile(node)
	require.NoError(t, err)
	return stmt
}

func TestCompileShapes(t *testing.T) {
	tests := []struct {
		name  string
		query string
		sql   string
		args  []any
	}{
		{
			name:  "empty query matches everything",
			query: "",
			sql:   selectPrefix + fromBase + " WHERE 1 = 1" + byRecency,
			args:  []any{20},
		},
		{
			name:  "title",
			query: "title:GettingStarted",
			sql:   selectPrefix + fromBase + " WHERE e.title = ?" + byRecency,
			args:  []any{"GettingStarted", 20},
		},
		{
			name:  "prefix",
			query: "bag:cdent*",
			sql:   selectPrefix + fromBase + ` WHERE e.bag LIKE ? ESCAPE '\'` + byRecency,
			args:  []any{"cdent%", 20},
		},
		{
			name:  "prefix escapes wildcards",
			query: "title:50%_off*",
			sql:   selectPrefix + fromBase + ` WHERE e.title LIKE ? ESCAPE '\'` + byRecency,
			args:  []any{`50\%\_off%`, 20},
		},
		{
			name:  "group value is literal",
			query: "title:(Hello World)",
			sql:   selectPrefix + fromBase + " WHERE e.title = ?" + byRecency,
			args:  []any{"(Hello World)", 20},
		},
		{
			name:  "quoted field value loses quotes",
			query: `title:"Hello World"`,
			sql:   selectPrefix + fromBase + " WHERE e.title = ?" + byRecency,
			args:  []any{"Hello World", 20},
		},
		{
			name:  "id",
			query: "id:bag1:a:b",
			sql:   selectPrefix + fromBase + " WHERE (e.bag = ? AND e.title = ?)" + byRecency,
			args:  []any{"bag1", "a:b", 20},
		},
		{
			name:  "bare modifier uses base revision",
			query: "modifier:cdent",
			sql:   selectPrefix + fromBase + " WHERE r.modifier = ?" + byRecency,
			args:  []any{"cdent", 20},
		},
		{
			name:  "adjacent tags join separately",
			query: "tag:apple tag:orange",
			sql: selectPrefix + fromBase +
				" LEFT JOIN tag tg0 ON tg0.revision_id = e.current_revision" +
				" LEFT JOIN tag tg1 ON tg1.revision_id = e.current_revision" +
				" WHERE (tg0.tag = ? AND tg1.tag = ?)" + byRecency,
			args: []any{"apple", "orange", 20},
		},
		{
			name:  "or shares one join",
			query: "tag:apple OR tag:pear",
			sql: selectPrefix + fromBase +
				" LEFT JOIN tag tg0 ON tg0.revision_id = e.current_revision" +
				" WHERE (tg0.tag = ? OR tg0.tag = ?)" + byRecency,
			args: []any{"apple", "pear", 20},
		},
		{
			name:  "or nested in conjunction",
			query: "tag:a (tag:b OR tag:c)",
			sql: selectPrefix + fromBase +
				" LEFT JOIN tag tg0 ON tg0.revision_id = e.current_revision" +
				" LEFT JOIN tag tg1 ON tg1.revision_id = e.current_revision" +
				" WHERE (tg0.tag = ? AND (tg1.tag = ? OR tg1.tag = ?))" + byRecency,
			args: []any{"a", "b", "c", 20},
		},
		{
			name:  "conjunction nested in or",
			query: "(tag:a AND tag:b) OR tag:c",
			sql: selectPrefix + fromBase +
				" LEFT JOIN tag tg0 ON tg0.revision_id = e.current_revision" +
				" LEFT JOIN tag tg1 ON tg1.revision_id = e.current_revision" +
				" LEFT JOIN tag tg2 ON tg2.revision_id = e.current_revision" +
				" WHERE ((tg0.tag = ? AND tg1.tag = ?) OR tg2.tag = ?)" + byRecency,
			args: []any{"a", "b", "c", 20},
		},
		{
			name:  "negation shares join",
			query: "tag:a OR NOT tag:b",
			sql: selectPrefix + fromBase +
				" LEFT JOIN tag tg0 ON tg0.revision_id = e.current_revision" +
				" WHERE (tg0.tag = ? OR NOT (tg0.tag = ?))" + byRecency,
			args: []any{"a", "b", 20},
		},
		{
			name:  "negated conjunction",
			query: "NOT (tag:a AND tag:b)",
			sql: selectPrefix + fromBase +
				" LEFT JOIN tag tg0 ON tg0.revision_id = e.current_revision" +
				" LEFT JOIN tag tg1 ON tg1.revision_id = e.current_revision" +
				" WHERE NOT ((tg0.tag = ? AND tg1.tag = ?))" + byRecency,
			args: []any{"a", "b", 20},
		},
		{
			name:  "generic fields",
			query: "geo.lat:1.2* geo.long:-45.*",
			sql: selectPrefix + fromBase +
				" LEFT JOIN field fd0 ON fd0.revision_id = e.current_revision" +
				" LEFT JOIN field fd1 ON fd1.revision_id = e.current_revision" +
				` WHERE ((fd0.name = ? AND fd0.value LIKE ? ESCAPE '\') AND (fd1.name = ? AND fd1.value LIKE ? ESCAPE '\'))` +
				byRecency,
			args: []any{"geo.lat", "1.2%", "geo.long", "-45.%", 20},
		},
		{
			name:  "adjacent words are one full-text term",
			query: "apple banana",
			sql: selectPrefix + fromBase +
				" LEFT JOIN entity_text tx0 ON tx0.rowid = e.current_revision" +
				" WHERE tx0.rowid IN (SELECT rowid FROM entity_text WHERE entity_text MATCH ?)" + byRecency,
			args: []any{`"apple" OR "banana"`, 20},
		},
		{
			name:  "phrase and text field share the text join",
			query: `"cdent starts" text:hello`,
			sql: selectPrefix + fromBase +
				" LEFT JOIN entity_text tx0 ON tx0.rowid = e.current_revision" +
				" WHERE (tx0.rowid IN (SELECT rowid FROM entity_text WHERE entity_text MATCH ?)" +
				" AND tx0.rowid IN (SELECT rowid FROM entity_text WHERE entity_text MATCH ?))" + byRecency,
			args: []any{`"cdent starts"`, `"hello"`, 20},
		},
		{
			name:  "explicit limit",
			query: "bag:x _limit:5",
			sql:   selectPrefix + fromBase + " WHERE e.bag = ?" + byRecency,
			args:  []any{"x", 5},
		},
		{
			name:  "unparseable limit is unbounded",
			query: "bag:x _limit:so",
			sql:   selectPrefix + fromBase + " WHERE e.bag = ?) matches ORDER BY modified DESC",
			args:  []any{"x"},
		},
		{
			name:  "near",
			query: "near:1.5,2.5,1000 _limit:3",
			sql: selectPrefix + ", greatcircle(?, ?, fd0.value, fd1.value) AS greatcircle" + fromBase +
				" LEFT JOIN field fd0 ON fd0.revision_id = e.current_revision" +
				" LEFT JOIN field fd1 ON fd1.revision_id = e.current_revision" +
				" WHERE (fd0.name = ? AND fd1.name = ?)) matches WHERE greatcircle < ?" +
				" ORDER BY greatcircle ASC, modified DESC LIMIT ?",
			args: []any{1.5, 2.5, "geo.lat", "geo.long", 1000.0, 3},
		},
		{
			name:  "near uses near window",
			query: "near:0,0,10",
			sql: selectPrefix + ", greatcircle(?, ?, fd0.value, fd1.value) AS greatcircle" + fromBase +
				" LEFT JOIN field fd0 ON fd0.revision_id = e.current_revision" +
				" LEFT JOIN field fd1 ON fd1.revision_id = e.current_revision" +
				" WHERE (fd0.name = ? AND fd1.name = ?)) matches WHERE greatcircle < ?" +
				" ORDER BY greatcircle ASC, modified DESC LIMIT ?",
			args: []any{0.0, 0.0, "geo.lat", "geo.long", 10.0, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := compile(t, Options{NearLimit: 7}, tt.query)
			require.Equal(t, tt.sql, stmt.SQL)
			require.Equal(t, tt.args, stmt.Args)
			require.Equal(t, strings.Count(stmt.SQL, "?"), len(stmt.Args))
		})
	}
}

func TestCompileLimits(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		query string
		want  int
	}{
		{"default", Options{}, "tag:a", 20},
		{"configured default", Options{DefaultLimit: 5}, "tag:a", 5},
		{"explicit", Options{DefaultLimit: 5}, "tag:a _limit:50", 50},
		{"group value is not a number", Options{}, "_limit:(7)", 0},
		{"zero is invalid", Options{}, "tag:a _limit:0", 0},
		{"negative is invalid", Options{}, "tag:a _limit:-3", 0},
		{"invalid", Options{}, "tag:a _limit:so", 0},
		{"near window", Options{NearLimit: 3}, "near:0,0,5", 3},
		{"near with invalid limit", Options{NearLimit: 3}, "near:0,0,5 _limit:so", 3},
		{"explicit beats near window", Options{NearLimit: 3}, "near:0,0,5 _limit:9", 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := compile(t, tt.opts, tt.query)
			require.Equal(t, tt.want, stmt.Limit)
			require.Equal(t, tt.want > 0, strings.HasSuffix(stmt.SQL, " LIMIT ?"))
			require.Contains(t, stmt.SQL, "modified DESC")
		})
	}
}

func TestCompileMultipleNear(t *testing.T) {
	stmt := compile(t, Options{}, "near:0,0,5 OR near:1,1,5")
	require.Contains(t, stmt.SQL, "greatcircle(?, ?, fd0.value, fd1.value) AS greatcircle,")
	require.Contains(t, stmt.SQL, "greatcircle(?, ?, fd2.value, fd3.value) AS greatcircle_1 FROM")
	require.Contains(t, stmt.SQL, "WHERE (greatcircle < ? AND greatcircle_1 < ?)")
	require.Contains(t, stmt.SQL, "ORDER BY greatcircle ASC, greatcircle_1 ASC, modified DESC")
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		query string
	}{
		{"id without separator", Options{}, "id:bag1"},
		{"id nested", Options{}, "tag:a OR (NOT id:x)"},
		{"near too few", Options{}, "near:1,2"},
		{"near too many", Options{}, "near:1,2,3,4"},
		{"near not numbers", Options{}, "near:a,b,c"},
		{"strict limit", Options{StrictLimit: true}, "_limit:so"},
		{"strict limit zero", Options{StrictLimit: true}, "_limit:0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := query.Parse(tt.query)
			require.NoError(t, err)
			_, err = NewCompiler(SQLite{}, tt.opts).Compile(node)
			require.ErrorIs(t, err, ErrMalformedValue)

			var mv *MalformedValueError
			require.True(t, errors.As(err, &mv))
			require.NotEmpty(t, mv.Field)
		})
	}
}

func TestCompileMySQL(t *testing.T) {
	node, err := query.Parse(`+apple -pear tag:fruit*`)
	require.NoError(t, err)
	stmt, err := NewCompiler(MySQL{}, Options{}).Compile(node)
	require.NoError(t, err)

	require.Equal(t, selectPrefix+fromBase+
		" LEFT JOIN entity_text tx0 ON tx0.revision_id = e.current_revision"+
		" LEFT JOIN tag tg0 ON tg0.revision_id = e.current_revision"+
		` WHERE (MATCH(tx0.body) AGAINST (? IN BOOLEAN MODE) AND tg0.tag LIKE ? ESCAPE '\\')`+byRecency,
		stmt.SQL)
	require.Equal(t, []any{"+apple -pear", "fruit%", 20}, stmt.Args)
}

func TestCompilerConcurrentUse(t *testing.T) {
	c := NewCompiler(SQLite{}, Options{})
	node, err := query.Parse("tag:a tag:b (tag:c OR near:1,2,3)")
	require.NoError(t, err)
	want, err := c.Compile(node)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Statement, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Compile(node)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		require.Equal(t, want, results[i])
	}
}
