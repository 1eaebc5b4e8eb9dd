// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite — a pure-Go translation of SQLite, so
// the binary cross-compiles without CGo. The database is a single file
// (or ":memory:" for tests).
//
// Array-valued relationships from the domain (likes, comments, experience,
// education) are child tables, not serialized arrays. That makes every
// add/remove a single INSERT or DELETE and lets UNIQUE constraints enforce
// the one-like-per-user invariant — there is no read-modify-write of a
// document to race on.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init().
	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB pool. The repository interfaces are implemented by
// the sub-repositories returned from Users, Profiles, and Posts — they all
// share this one pool.
type DB struct {
	conn *sql.DB
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserDB {
	return &UserDB{conn: db.conn}
}

// Profiles returns the profile repository backed by this database.
func (db *DB) Profiles() *ProfileDB {
	return &ProfileDB{conn: db.conn}
}

// Posts returns the post repository backed by this database.
func (db *DB) Posts() *PostDB {
	return &PostDB{conn: db.conn}
}

// New opens the database, configures it, and runs migrations.
//
// WAL mode allows concurrent readers during a write, which matters for a
// web server. Foreign keys are off by default in SQLite; we need them on for
// the user→profile and profile→entries cascades.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// PRAGMAs apply per connection and ":memory:" is per connection too;
	// one pooled connection keeps both consistent. SQLite serializes
	// writes regardless, so this costs little.
	conn.SetMaxOpenConns(1)

	// Surface a bad path or permissions now instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent — safe to run on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
			avatar        TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_github_id
			ON users(github_id) WHERE github_id != 0;

		CREATE TABLE IF NOT EXISTS profiles (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			handle          TEXT NOT NULL UNIQUE COLLATE NOCASE,
			status          TEXT NOT NULL,
			company         TEXT NOT NULL DEFAULT '',
			website         TEXT NOT NULL DEFAULT '',
			location        TEXT NOT NULL DEFAULT '',
			bio             TEXT NOT NULL DEFAULT '',
			github_username TEXT NOT NULL DEFAULT '',
			skills          TEXT NOT NULL DEFAULT '',
			youtube         TEXT NOT NULL DEFAULT '',
			twitter         TEXT NOT NULL DEFAULT '',
			facebook        TEXT NOT NULL DEFAULT '',
			linkedin        TEXT NOT NULL DEFAULT '',
			instagram       TEXT NOT NULL DEFAULT '',
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS experience (
			id          TEXT PRIMARY KEY,
			profile_id  TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			title       TEXT NOT NULL,
			company     TEXT NOT NULL,
			location    TEXT NOT NULL DEFAULT '',
			from_date   TEXT NOT NULL,
			to_date     TEXT NOT NULL DEFAULT '',
			current     INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_experience_profile_id ON experience(profile_id);

		CREATE TABLE IF NOT EXISTS education (
			id             TEXT PRIMARY KEY,
			profile_id     TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			school         TEXT NOT NULL,
			degree         TEXT NOT NULL,
			field_of_study TEXT NOT NULL,
			from_date      TEXT NOT NULL,
			to_date        TEXT NOT NULL DEFAULT '',
			current        INTEGER NOT NULL DEFAULT 0,
			description    TEXT NOT NULL DEFAULT '',
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_education_profile_id ON education(profile_id);

		-- posts carry no FK to users: deleting an account keeps its posts,
		-- rendered from the name/avatar snapshot columns.
		CREATE TABLE IF NOT EXISTS posts (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			text       TEXT NOT NULL,
			name       TEXT NOT NULL,
			avatar     TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);

		-- the composite primary key IS the one-like-per-user invariant
		CREATE TABLE IF NOT EXISTS post_likes (
			post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id    TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (post_id, user_id)
		);

		CREATE TABLE IF NOT EXISTS post_comments (
			id         TEXT PRIMARY KEY,
			post_id    TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id    TEXT NOT NULL,
			text       TEXT NOT NULL,
			name       TEXT NOT NULL,
			avatar     TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_post_comments_post_id ON post_comments(post_id);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// isUniqueViolation detects UNIQUE constraint failures from the driver.
// modernc.org/sqlite exposes them as generic errors with the SQLite message
// text, so string matching is the available signal.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
