// Package mongostore implements a menu tree source on MongoDB.
//
// Menus are stored in a "menus" collection ({_id, slug, title}) and their
// links in "menu_links" ({_id, menu_id, parent_id, title, url, description,
// target, expanded, lft}).
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/treemenu/pkg/cache"
	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/menu"
)

const (
	menusCollection = "menus"
	linksCollection = "menu_links"
)

type menuDoc struct {
	ID    int64  `bson:"_id"`
	Slug  string `bson:"slug"`
	Title string `bson:"title"`
}

type linkDoc struct {
	ID          int64  `bson:"_id"`
	MenuID      int64  `bson:"menu_id"`
	ParentID    int64  `bson:"parent_id"`
	Title       string `bson:"title"`
	URL         string `bson:"url"`
	Description string `bson:"description,omitempty"`
	Target      string `bson:"target,omitempty"`
	Expanded    bool   `bson:"expanded"`
	Lft         int    `bson:"lft"`
}

func (d linkDoc) link() menu.Link {
	return menu.Link{
		ID:          d.ID,
		MenuID:      d.MenuID,
		ParentID:    d.ParentID,
		Title:       d.Title,
		URL:         d.URL,
		Description: d.Description,
		Target:      d.Target,
		Expanded:    d.Expanded,
		Lft:         d.Lft,
	}
}

// Store is a [store.Source] backed by MongoDB.
//
// [store.Source]: github.com/matzehuels/treemenu/pkg/store.Source
type Store struct {
	client *mongo.Client
	menus  *mongo.Collection
	links  *mongo.Collection
}

// Connect dials MongoDB at uri and uses the named database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errs.Wrap(errs.ErrCodeStorage, retryable(err), "ping mongodb")
	}
	return New(client, database), nil
}

// New uses an existing client.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client: client,
		menus:  db.Collection(menusCollection),
		links:  db.Collection(linksCollection),
	}
}

// Name returns "mongo".
func (s *Store) Name() string { return "mongo" }

// EnsureIndexes creates the indexes used by the finders.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.menus.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "create slug index")
	}
	if _, err := s.links.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "menu_id", Value: 1}, {Key: "lft", Value: 1}},
	}); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "create link index")
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// FindTreeByMenuID loads all links of the menu and threads them into a tree.
func (s *Store) FindTreeByMenuID(ctx context.Context, id int64) (menu.Tree, error) {
	opts := options.Find().SetSort(bson.D{{Key: "lft", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.links.Find(ctx, bson.M{"menu_id": id}, opts)
	if err != nil {
		return nil, fmt.Errorf("find links: %w", retryable(err))
	}
	defer cur.Close(ctx)

	var docs []linkDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode links: %w", retryable(err))
	}
	links := make([]menu.Link, len(docs))
	for i, d := range docs {
		links[i] = d.link()
	}
	return menu.Thread(links), nil
}

// FindMenuIDBySlug resolves a menu slug.
func (s *Store) FindMenuIDBySlug(ctx context.Context, slug string) (int64, bool, error) {
	var doc menuDoc
	err := s.menus.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find menu: %w", retryable(err))
	}
	return doc.ID, true, nil
}

// SaveMenu upserts a menu document.
func (s *Store) SaveMenu(ctx context.Context, id int64, slug, title string) error {
	if err := errs.ValidateMenuID(id); err != nil {
		return err
	}
	if err := errs.ValidateSlug(slug); err != nil {
		return err
	}
	_, err := s.menus.ReplaceOne(ctx, bson.M{"_id": id},
		menuDoc{ID: id, Slug: slug, Title: title},
		options.Replace().SetUpsert(true))
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "save menu %q", slug)
	}
	return nil
}

// ImportTree replaces the links of a menu with the given tree.
func (s *Store) ImportTree(ctx context.Context, menuID int64, t menu.Tree) error {
	if _, err := s.links.DeleteMany(ctx, bson.M{"menu_id": menuID}); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "clear menu %d", menuID)
	}
	docs := flatten(menuID, t)
	if len(docs) == 0 {
		return nil
	}
	batch := make([]any, len(docs))
	for i, d := range docs {
		batch[i] = d
	}
	if _, err := s.links.InsertMany(ctx, batch); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "insert links of menu %d", menuID)
	}
	return nil
}

// flatten numbers the tree in pre-order. Link IDs are derived from the menu
// ID (high 32 bits) and the pre-order position (low 32 bits) so that
// imports of different menus never collide.
func flatten(menuID int64, t menu.Tree) []linkDoc {
	var (
		docs []linkDoc
		lft  int
	)
	var visit func(nodes []*menu.Node, parent int64)
	visit = func(nodes []*menu.Node, parent int64) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			lft++
			id := menuID<<32 | int64(lft)
			docs = append(docs, linkDoc{
				ID:          id,
				MenuID:      menuID,
				ParentID:    parent,
				Title:       n.Title,
				URL:         n.URL,
				Description: n.Description,
				Target:      n.Target,
				Expanded:    n.Expanded,
				Lft:         lft,
			})
			visit(n.Children, id)
		}
	}
	visit(t, 0)
	return docs
}

// retryable marks transient driver errors for cache.RetryWithBackoff.
func retryable(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return cache.Retryable(errors.Join(cache.ErrNetwork, err))
	}
	return err
}
