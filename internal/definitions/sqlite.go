package definitions

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Glossary is the local sqlite-backed definition store. Users seed it with
// case-specific vocabulary; lookups are case-insensitive.
type Glossary struct {
	db *sql.DB
}

// OpenGlossary opens (creating if needed) the glossary database.
func OpenGlossary(path string) (*Glossary, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "definitions: open glossary")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "definitions: exec %s", pragma)
		}
	}
	g := &Glossary{db: db}
	if err := g.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return g, nil
}

const glossaryMigration = `
CREATE TABLE IF NOT EXISTS glossary (
	term       TEXT PRIMARY KEY COLLATE NOCASE,
	definition TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT 'user',
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (g *Glossary) migrate() error {
	_, err := g.db.Exec(glossaryMigration)
	return eris.Wrap(err, "definitions: migrate glossary")
}

// Close releases the database handle.
func (g *Glossary) Close() error {
	return g.db.Close()
}

// Lookup returns the stored definition, or "" when the term is unknown.
func (g *Glossary) Lookup(ctx context.Context, term string) (string, error) {
	var def string
	err := g.db.QueryRowContext(ctx,
		`SELECT definition FROM glossary WHERE term = ?`, term,
	).Scan(&def)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrapf(err, "definitions: lookup %q", term)
	}
	return def, nil
}

// Put inserts or replaces a definition.
func (g *Glossary) Put(ctx context.Context, term, definition, source string) error {
	if source == "" {
		source = "user"
	}
	_, err := g.db.ExecContext(ctx, `
		INSERT INTO glossary (term, definition, source, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(term) DO UPDATE SET
			definition = excluded.definition,
			source = excluded.source,
			updated_at = excluded.updated_at
	`, term, definition, source, time.Now().UTC())
	return eris.Wrapf(err, "definitions: put %q", term)
}

// Count returns the number of glossary entries.
func (g *Glossary) Count(ctx context.Context) (int, error) {
	var n int
	if err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM glossary`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "definitions: count glossary")
	}
	return n, nil
}
