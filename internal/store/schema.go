package store

// SchemaVersion is recorded in the meta table.
const SchemaVersion = 1

// Full-text rows share their revision's id: the FTS5 rowid in SQLite and
// the revision_id key in MySQL.
const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS meta (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entity (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bag TEXT NOT NULL,
		title TEXT NOT NULL,
		current_revision INTEGER,
		UNIQUE (bag, title)
	);

	CREATE TABLE IF NOT EXISTS revision (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entity_id INTEGER NOT NULL REFERENCES entity(id),
		number INTEGER NOT NULL,
		modifier TEXT NOT NULL DEFAULT '',
		modified TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		UNIQUE (entity_id, number)
	);

	CREATE TABLE IF NOT EXISTS tag (
		revision_id INTEGER NOT NULL REFERENCES revision(id),
		tag TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS field (
		revision_id INTEGER NOT NULL REFERENCES revision(id),
		name TEXT NOT NULL,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_revision_modified ON revision(modified);
	CREATE INDEX IF NOT EXISTS idx_tag_revision ON tag(revision_id);
	CREATE INDEX IF NOT EXISTS idx_tag_tag ON tag(tag);
	CREATE INDEX IF NOT EXISTS idx_field_revision ON field(revision_id);
	CREATE INDEX IF NOT EXISTS idx_field_name_value ON field(name, value);

	CREATE VIRTUAL TABLE IF NOT EXISTS entity_text USING fts5(
		body,
		tokenize='porter unicode61'
	);
`

const mysqlTableOptions = " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"

// MySQL runs without multiStatements, so each statement is executed alone.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS meta (
		name VARCHAR(64) NOT NULL PRIMARY KEY,
		value VARCHAR(191) NOT NULL
	)` + mysqlTableOptions,

	`CREATE TABLE IF NOT EXISTS entity (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		bag VARCHAR(128) NOT NULL,
		title VARCHAR(128) NOT NULL,
		current_revision BIGINT NULL,
		UNIQUE KEY uniq_entity_bag_title (bag, title)
	)` + mysqlTableOptions,

	`CREATE TABLE IF NOT EXISTS revision (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		entity_id BIGINT NOT NULL,
		number INT NOT NULL,
		modifier VARCHAR(128) NOT NULL DEFAULT '',
		modified CHAR(14) NOT NULL,
		type VARCHAR(128) NOT NULL DEFAULT '',
		text MEDIUMTEXT NOT NULL,
		UNIQUE KEY uniq_revision_number (entity_id, number),
		KEY idx_revision_modified (modified)
	)` + mysqlTableOptions,

	`CREATE TABLE IF NOT EXISTS tag (
		revision_id BIGINT NOT NULL,
		tag VARCHAR(191) NOT NULL,
		KEY idx_tag_revision (revision_id),
		KEY idx_tag_tag (tag)
	)` + mysqlTableOptions,

	`CREATE TABLE IF NOT EXISTS field (
		revision_id BIGINT NOT NULL,
		name VARCHAR(191) NOT NULL,
		value VARCHAR(191) NOT NULL,
		KEY idx_field_revision (revision_id),
		KEY idx_field_name_value (name, value)
	)` + mysqlTableOptions,

	`CREATE TABLE IF NOT EXISTS entity_text (
		revision_id BIGINT NOT NULL PRIMARY KEY,
		body MEDIUMTEXT NOT NULL,
		FULLTEXT KEY ft_entity_text_body (body)
	)` + mysqlTableOptions,
}

// statements holds the SQL that differs between drivers.
type statements struct {
	ensureEntity string
	insertText   string
	deleteText   string
}

var sqliteStatements = statements{
	ensureEntity: `INSERT INTO entity (bag, title) VALUES (?, ?) ON CONFLICT (bag, title) DO NOTHING`,
	insertText:   `INSERT INTO entity_text (rowid, body) VALUES (?, ?)`,
	deleteText:   `DELETE FROM entity_text WHERE rowid IN (%s)`,
}

var mysqlStatements = statements{
	ensureEntity: `INSERT INTO entity (bag, title) VALUES (?, ?) ON DUPLICATE KEY UPDATE id = id`,
	insertText:   `INSERT INTO entity_text (revision_id, body) VALUES (?, ?)`,
	deleteText:   `DELETE FROM entity_text WHERE revision_id IN (%s)`,
}
