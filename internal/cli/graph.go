package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemenu/pkg/diagram"
)

// graphCommand creates the graph command for drawing menu trees.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		source sourceFlags
		output string
		dot    bool
		opts   diagram.Options
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw a menu tree as a diagram",
		Long: `Draw a menu tree as a node-link diagram.

The diagram is rendered to SVG in-process. Use --dot to print the Graphviz
source instead, for example to process it with external Graphviz tools.`,
		Example: `  treemenu graph --file menu.yaml -o menu.svg
  treemenu graph --slug main --dot --collapsed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), cmd, &source, opts, output, dot)
		},
	}

	source.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&dot, "dot", false, "write Graphviz DOT instead of SVG")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show URLs and link IDs")
	cmd.Flags().BoolVar(&opts.Collapsed, "collapsed", false, "also draw children of collapsed items")

	return cmd
}

// runGraph loads the tree and writes its diagram.
func (c *CLI) runGraph(ctx context.Context, cmd *cobra.Command, source *sourceFlags, opts diagram.Options, output string, dot bool) error {
	b, tree, name, err := c.load(ctx, cmd, source)
	if err != nil {
		return err
	}
	defer b.close()

	if opts.Title == "" {
		opts.Title = name
	}
	src := diagram.ToDOT(tree, opts)
	if dot {
		return writeOutput(output, src, "Wrote DOT graph")
	}

	spinner := newSpinnerWithContext(ctx, "Rendering diagram...")
	spinner.Start()
	svg, err := diagram.RenderSVG(ctx, src)
	if err != nil {
		spinner.StopWithError("Diagram failed")
		return fmt.Errorf("render diagram: %w", err)
	}
	spinner.Stop()

	if output == "" {
		_, err := os.Stdout.Write(svg)
		return err
	}
	if err := os.WriteFile(output, svg, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Rendered diagram")
	printFile(output)
	return nil
}
