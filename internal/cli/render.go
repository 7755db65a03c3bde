package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemenu/pkg/render"
	"github.com/matzehuels/treemenu/pkg/template"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	source     sourceFlags
	current    string // path of the current page
	breadcrumb string // comma-separated breadcrumb paths
	split      int    // number of top-level groups
	dropdown   bool   // dropdown markup
	beautify   string // tidy directive
	class      string // wrapper class attribute
	idAttr     string // wrapper id attribute
	noGuess    bool   // disable breadcrumb guessing
	output     string // output file
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a menu to HTML",
		Long: `Render a menu to HTML.

The menu comes from a tree file (--file), or from the configured menu store
by ID (--id) or slug (--slug). Rendering defaults come from the config file;
flags override them for this call.`,
		Example: `  treemenu render --file menu.yaml --current /blog --beautify 2s0n
  treemenu render --slug main --split 3 --class nav -o menu.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd, &opts)
		},
	}

	opts.source.register(cmd)
	cmd.Flags().StringVar(&opts.current, "current", "", "path of the current page (active trail)")
	cmd.Flags().StringVar(&opts.breadcrumb, "breadcrumb", "", "comma-separated breadcrumb paths")
	cmd.Flags().BoolVar(&opts.noGuess, "no-guess", false, "only mark links to the current path as active")
	cmd.Flags().IntVar(&opts.split, "split", 0, "render top-level items in N groups")
	cmd.Flags().BoolVar(&opts.dropdown, "dropdown", false, "add dropdown markup")
	cmd.Flags().StringVar(&opts.beautify, "beautify", "", "tidy directive, e.g. 2s0n or 1t0n")
	cmd.Flags().StringVar(&opts.class, "class", "", "class attribute of the outer element")
	cmd.Flags().StringVar(&opts.idAttr, "id-attr", "", "id attribute of the outer element")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// renderOptions converts the changed flags into per-call overrides.
func (o *renderOpts) renderOptions(cmd *cobra.Command) render.Options {
	var opts render.Options
	flags := cmd.Flags()
	if flags.Changed("split") {
		opts.Config.Split = render.Ptr(o.split)
	}
	if flags.Changed("dropdown") {
		opts.Config.Dropdown = render.Ptr(o.dropdown)
	}
	if flags.Changed("beautify") {
		opts.Config.Beautify = render.Ptr(o.beautify)
	}
	if o.noGuess {
		opts.Config.BreadcrumbGuessing = render.Ptr(false)
	}
	if o.class != "" || o.idAttr != "" {
		opts.Attrs = template.Attrs{"class": o.class, "id": o.idAttr}
	}
	return opts
}

// runRender renders the menu and writes it to the output.
func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, ro *renderOpts) error {
	b, tree, _, err := c.load(ctx, cmd, &ro.source)
	if err != nil {
		return err
	}
	defer b.close()

	opts := ro.renderOptions(cmd)
	opts.Resolver = b.cfg.Resolver(ro.current, splitList(ro.breadcrumb))

	prog := newProgress(loggerFromContext(ctx))
	out, err := b.renderer.Render(ctx, render.Items(tree), opts)
	if err != nil {
		return err
	}
	prog.done("Rendered menu", "items", render.CountItems(tree))

	return writeOutput(ro.output, out, "Rendered menu")
}

// writeOutput writes content to path, or to stdout when path is empty.
func writeOutput(path, content, success string) error {
	if path == "" {
		_, err := fmt.Fprintln(os.Stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("%s", success)
	printFile(path)
	return nil
}
