package search

import (
	"fmt"
	"strconv"
)

// Dialect supplies the SQL fragments that differ between database engines.
type Dialect interface {
	// Name returns the database/sql driver name the dialect targets.
	Name() string
	// TextJoin returns the join clause binding the full-text relation
	// under alias.
	TextJoin(alias string) string
	// Match returns a full-text predicate for a boolean-mode search value.
	Match(alias, value string) Expr
	// Distance returns the great-circle distance in meters between the
	// point (lat, long) and the coordinates held in latCol and longCol.
	Distance(latCol, longCol string, lat, long float64) Expr
	// Like returns a LIKE predicate with '\' as the escape character.
	Like(column, pattern string) Expr
}

// DialectFor returns the dialect for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite", "sqlite3", "":
		return SQLite{}, nil
	case "mysql":
		return MySQL{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// SQLite targets modernc.org/sqlite with an FTS5 entity_text table. The
// connection must register the greatcircle scalar function.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) TextJoin(alias string) string {
	return fmt.Sprintf("LEFT JOIN entity_text %s ON %s.rowid = e.current_revision", alias, alias)
}

func (SQLite) Match(alias, value string) Expr {
	return cond(
		fmt.Sprintf("%s.rowid IN (SELECT rowid FROM entity_text WHERE entity_text MATCH ?)", alias),
		ftsQuery(value),
	)
}

func (SQLite) Distance(latCol, longCol string, lat, long float64) Expr {
	return cond(fmt.Sprintf("greatcircle(?, ?, %s, %s)", latCol, longCol), lat, long)
}

func (SQLite) Like(column, pattern string) Expr {
	return cond(column+` LIKE ? ESCAPE '\'`, pattern)
}

// MySQL targets go-sql-driver/mysql with a FULLTEXT index on
// entity_text.body.
type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) TextJoin(alias string) string {
	return fmt.Sprintf("LEFT JOIN entity_text %s ON %s.revision_id = e.current_revision", alias, alias)
}

func (MySQL) Match(alias, value string) Expr {
	return cond(fmt.Sprintf("MATCH(%s.body) AGAINST (? IN BOOLEAN MODE)", alias), value)
}

func (MySQL) Distance(latCol, longCol string, lat, long float64) Expr {
	radius := strconv.FormatFloat(earthRadius, 'f', -1, 64)
	return cond(fmt.Sprintf(
		"2 * %s * ASIN(SQRT(POWER(SIN(RADIANS(%s - ?) / 2), 2) + COS(RADIANS(?)) * COS(RADIANS(%s)) * POWER(SIN(RADIANS(%s - ?) / 2), 2)))",
		radius, latCol, latCol, longCol,
	), lat, lat, long)
}

// MySQL treats backslash as a string escape, so the literal is doubled.
func (MySQL) Like(column, pattern string) Expr {
	return cond(column+` LIKE ? ESCAPE '\\'`, pattern)
}
