// Package sqlstore implements a menu tree source on SQLite.
//
// Menus live in two tables. Links are threaded into a tree by parent_id and
// ordered among siblings by their lft (nested set left) value:
//
//	menus(id, slug, title)
//	menu_links(id, menu_id, parent_id, title, url, description, target, expanded, lft)
//
// The driver is modernc.org/sqlite, a pure Go port, so the binary needs no cgo.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/menu"
)

const schema = `
CREATE TABLE IF NOT EXISTS menus (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	slug TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS menu_links (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	menu_id INTEGER NOT NULL REFERENCES menus(id) ON DELETE CASCADE,
	parent_id INTEGER NOT NULL DEFAULT 0,
	title TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	target TEXT NOT NULL DEFAULT '',
	expanded INTEGER NOT NULL DEFAULT 0,
	lft INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_menu_links_menu ON menu_links(menu_id, lft);
`

// Store is a [store.Source] backed by a SQL database.
//
// [store.Source]: github.com/matzehuels/treemenu/pkg/store.Source
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at dsn and applies
// the schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "open database %s", dsn)
	}
	if strings.Contains(dsn, ":memory:") {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle. The schema is not applied.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the menu tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "apply schema")
	}
	return nil
}

// Name returns "sqlite".
func (s *Store) Name() string { return "sqlite" }

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// FindTreeByMenuID loads all links of the menu and threads them into a tree.
func (s *Store) FindTreeByMenuID(ctx context.Context, id int64) (menu.Tree, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, menu_id, parent_id, title, url, description, target, expanded, lft
		FROM menu_links
		WHERE menu_id = ?
		ORDER BY lft, id`, id)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	var links []menu.Link
	for rows.Next() {
		var l menu.Link
		if err := rows.Scan(&l.ID, &l.MenuID, &l.ParentID, &l.Title, &l.URL,
			&l.Description, &l.Target, &l.Expanded, &l.Lft); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return menu.Thread(links), nil
}

// FindMenuIDBySlug resolves a menu slug.
func (s *Store) FindMenuIDBySlug(ctx context.Context, slug string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM menus WHERE slug = ?`, slug).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query menu: %w", err)
	}
	return id, true, nil
}

// CreateMenu inserts a menu and returns its ID.
func (s *Store) CreateMenu(ctx context.Context, slug, title string) (int64, error) {
	if err := errs.ValidateSlug(slug); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO menus (slug, title) VALUES (?, ?)`, slug, title)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeStorage, err, "create menu %q", slug)
	}
	return res.LastInsertId()
}

// AddLink inserts a single link row and returns its ID.
func (s *Store) AddLink(ctx context.Context, l menu.Link) (int64, error) {
	return addLink(ctx, s.db, l)
}

// ImportTree replaces the links of a menu with the given tree. Links are
// numbered in pre-order so that lft preserves sibling order.
func (s *Store) ImportTree(ctx context.Context, menuID int64, t menu.Tree) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "begin import")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM menu_links WHERE menu_id = ?`, menuID); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "clear menu %d", menuID)
	}

	lft := 0
	var insert func(nodes []*menu.Node, parent int64) error
	insert = func(nodes []*menu.Node, parent int64) error {
		for _, n := range nodes {
			lft++
			id, err := addLink(ctx, tx, menu.Link{
				MenuID:      menuID,
				ParentID:    parent,
				Title:       n.Title,
				URL:         n.URL,
				Description: n.Description,
				Target:      n.Target,
				Expanded:    n.Expanded,
				Lft:         lft,
			})
			if err != nil {
				return err
			}
			if err := insert(n.Children, id); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(t, 0); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "commit import")
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func addLink(ctx context.Context, db execer, l menu.Link) (int64, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO menu_links (menu_id, parent_id, title, url, description, target, expanded, lft)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.MenuID, l.ParentID, l.Title, l.URL, l.Description, l.Target, l.Expanded, l.Lft)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeStorage, err, "insert link %q", l.Title)
	}
	return res.LastInsertId()
}
