package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/io"
	"github.com/matzehuels/treemenu/pkg/menu"
	"github.com/matzehuels/treemenu/pkg/store"
	"github.com/matzehuels/treemenu/pkg/store/mongostore"
	"github.com/matzehuels/treemenu/pkg/store/sqlstore"
)

// importCommand creates the import command for loading tree files into the
// configured menu store.
func (c *CLI) importCommand() *cobra.Command {
	var (
		slug  string
		title string
		id    int64
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Store a tree file in the menu store",
		Long: `Store a tree file in the menu store.

The tree replaces all links of the menu. The menu is created when it does
not exist yet. Slug, ID and title default to the values in the file.`,
		Example: `  treemenu import menu.yaml --slug main
  treemenu --config site.toml import footer.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := io.Import(args[0])
			if err != nil {
				return err
			}
			if slug != "" {
				doc.Slug = slug
			}
			if title != "" {
				doc.Title = title
			}
			if id != 0 {
				doc.ID = id
			}
			return c.runImport(cmd.Context(), doc)
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "", "menu slug (default from file)")
	cmd.Flags().StringVar(&title, "title", "", "menu title (default from file)")
	cmd.Flags().Int64Var(&id, "id", 0, "menu ID (mongo store; default from file)")

	return cmd
}

// runImport writes doc to the configured store and drops its cached trees.
func (c *CLI) runImport(ctx context.Context, doc *io.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if doc.Slug == "" {
		return errs.New(errs.ErrCodeInvalidSlug, "a menu slug is required (--slug or in the file)")
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	src, closeSrc, err := cfg.OpenSource(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	prog := newProgress(loggerFromContext(ctx))
	id, err := importTree(ctx, src, doc)
	if err != nil {
		return err
	}
	prog.done("Imported menu", "links", menu.Count(doc.Items))

	c.invalidate(ctx, doc.Slug, fmt.Sprint(id))

	printSuccess("Imported menu %s", StyleHighlight.Render(doc.Slug))
	printKeyValue("ID", fmt.Sprint(id))
	printKeyValue("Store", cfg.Store.Driver)
	return nil
}

// importTree creates or updates the menu and replaces its links.
func importTree(ctx context.Context, src store.Source, doc *io.Document) (int64, error) {
	if src == nil {
		return 0, errs.New(errs.ErrCodeUnsupported, "no menu store configured")
	}
	id, ok, err := src.FindMenuIDBySlug(ctx, doc.Slug)
	if err != nil {
		return 0, err
	}
	switch s := src.(type) {
	case *sqlstore.Store:
		if !ok {
			if id, err = s.CreateMenu(ctx, doc.Slug, doc.Title); err != nil {
				return 0, err
			}
		}
		return id, s.ImportTree(ctx, id, doc.Items)
	case *mongostore.Store:
		if !ok {
			id = doc.ID
		}
		if err := errs.ValidateMenuID(id); err != nil {
			return 0, errs.Wrap(errs.ErrCodeInvalidInput, err, "mongo menus need an explicit --id")
		}
		if err := s.SaveMenu(ctx, id, doc.Slug, doc.Title); err != nil {
			return 0, err
		}
		return id, s.ImportTree(ctx, id, doc.Items)
	}
	return 0, errs.New(errs.ErrCodeUnsupported, "store %T does not support imports", src)
}

// invalidate drops cached trees for refs. Failures are logged only.
func (c *CLI) invalidate(ctx context.Context, refs ...string) {
	b, err := c.newBackend(ctx, false, false)
	if err != nil {
		c.Logger.Warn("cache invalidation skipped", "error", err)
		return
	}
	defer b.close()
	for _, ref := range refs {
		if err := b.loader.Invalidate(ctx, ref); err != nil {
			c.Logger.Warn("cache invalidation failed", "ref", ref, "error", err)
		}
	}
}
