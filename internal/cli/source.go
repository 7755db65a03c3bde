package cli

import (
	"context"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/io"
	"github.com/matzehuels/treemenu/pkg/menu"
	"github.com/matzehuels/treemenu/pkg/render"
)

// sourceFlags select where a command reads its menu from.
type sourceFlags struct {
	file    string // tree file (json, yaml, toml)
	id      int64  // menu ID in the configured store
	slug    string // menu slug in the configured store
	noCache bool   // bypass the tree cache
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.file, "file", "", "tree file (.json, .yaml, .toml)")
	cmd.Flags().Int64Var(&s.id, "id", 0, "menu ID in the configured store")
	cmd.Flags().StringVar(&s.slug, "slug", "", "menu slug in the configured store")
	cmd.Flags().BoolVar(&s.noCache, "no-cache", false, "disable caching")
	cmd.MarkFlagsMutuallyExclusive("file", "id", "slug")
	cmd.MarkFlagsOneRequired("file", "id", "slug")
}

// input converts the flags into a render input and a display name.
func (s *sourceFlags) input(cmd *cobra.Command) (render.Input, string, error) {
	switch {
	case s.file != "":
		doc, err := io.Import(s.file)
		if err != nil {
			return nil, "", err
		}
		name := doc.Title
		if name == "" {
			name = doc.Slug
		}
		return render.Items(doc.Items), name, nil
	case cmd.Flags().Changed("id"):
		if err := errs.ValidateMenuID(s.id); err != nil {
			return nil, "", err
		}
		in := render.ID(s.id)
		return in, in.Ref(), nil
	case s.slug != "":
		return render.Slug(s.slug), s.slug, nil
	}
	return nil, "", errs.New(errs.ErrCodeInvalidInput, "one of --file, --id or --slug is required")
}

// fromStore reports whether the flags name a stored menu.
func (s *sourceFlags) fromStore() bool {
	return s.file == ""
}

// load opens a backend and resolves the menu tree. Stored menus that do not
// exist fail with MENU_NOT_FOUND. The caller must close the backend.
func (c *CLI) load(ctx context.Context, cmd *cobra.Command, s *sourceFlags) (*backend, menu.Tree, string, error) {
	in, name, err := s.input(cmd)
	if err != nil {
		return nil, nil, "", err
	}
	b, err := c.newBackend(ctx, s.fromStore(), s.noCache)
	if err != nil {
		return nil, nil, "", err
	}
	tree, err := b.renderer.Load(ctx, in)
	if err != nil {
		b.close()
		return nil, nil, "", err
	}
	if tree.Empty() && s.fromStore() {
		b.close()
		return nil, nil, "", errs.New(errs.ErrCodeMenuNotFound, "menu %q not found", in.Ref())
	}
	return b, tree, name, nil
}
