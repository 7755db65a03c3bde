package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemenu/pkg/menu"
	"github.com/matzehuels/treemenu/pkg/render"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listActiveStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		source   sourceFlags
		output   string
		beautify string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Explore a menu tree interactively",
		Long: `Explore a menu tree interactively.

Expand and collapse items and pick the current page, then press enter to
render the menu as it is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), cmd, &source, output, beautify)
		},
	}

	source.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&beautify, "beautify", "2s0n", "tidy directive for the rendered menu")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, cmd *cobra.Command, source *sourceFlags, output, beautify string) error {
	b, tree, name, err := c.load(ctx, cmd, source)
	if err != nil {
		return err
	}
	defer b.close()

	m := NewBrowseModel(tree, name)
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	result := final.(BrowseModel)
	if !result.Done {
		printInfo("Cancelled")
		return nil
	}

	opts := render.Options{Config: render.Partial{Beautify: render.Ptr(beautify)}}
	opts.Resolver = b.cfg.Resolver(result.Current, nil)
	out, err := b.renderer.Render(ctx, render.Items(result.Tree), opts)
	if err != nil {
		return err
	}
	return writeOutput(output, out, "Rendered menu")
}

// =============================================================================
// BrowseModel - Interactive tree explorer
// =============================================================================

// browseRow is one visible line of the tree.
type browseRow struct {
	node   *menu.Node
	depth  int
	parent int // row index of the parent, -1 for top-level items
}

// BrowseModel is the bubbletea model for exploring a menu tree.
// Expanding and collapsing items changes the Expanded flag of the tree's
// nodes in place.
type BrowseModel struct {
	Tree    menu.Tree
	Title   string
	Cursor  int
	Height  int
	Offset  int
	Current string // URL marked as the current page
	Done    bool   // enter was pressed

	rows []browseRow
}

// NewBrowseModel creates a browse model over t.
func NewBrowseModel(t menu.Tree, title string) BrowseModel {
	m := BrowseModel{Tree: t, Title: title, Height: 15}
	m.rows = visibleRows(t)
	return m
}

// visibleRows lists the nodes reachable through expanded parents.
func visibleRows(t menu.Tree) []browseRow {
	var rows []browseRow
	var walk func(nodes []*menu.Node, depth, parent int)
	walk = func(nodes []*menu.Node, depth, parent int) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			rows = append(rows, browseRow{node: n, depth: depth, parent: parent})
			if n.Expandable() {
				walk(n.Children, depth+1, len(rows)-1)
			}
		}
	}
	walk(t, 0, -1)
	return rows
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.Done = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
			}
		case "right", "l":
			if n := m.selected(); n.HasChildren() && !n.Expanded {
				n.Expanded = true
				m.rows = visibleRows(m.Tree)
			}
		case "left", "h":
			m.collapse()
		case " ", "space":
			if n := m.selected(); n.HasChildren() {
				n.Expanded = !n.Expanded
				m.rows = visibleRows(m.Tree)
			}
		case "c":
			if n := m.selected(); n != nil {
				m.Current = n.URL
			}
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
		m.scroll()
	}
	return m, nil
}

// collapse closes the selected item, or moves to its parent when it is
// already closed.
func (m *BrowseModel) collapse() {
	if len(m.rows) == 0 {
		return
	}
	row := m.rows[m.Cursor]
	if row.node.Expandable() {
		row.node.Expanded = false
		m.rows = visibleRows(m.Tree)
		return
	}
	if row.parent >= 0 {
		m.Cursor = row.parent
	}
}

func (m *BrowseModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m BrowseModel) selected() *menu.Node {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.Cursor].node
}

func (m BrowseModel) View() string {
	var b strings.Builder

	title := "Menu"
	if m.Title != "" {
		title = "Menu " + m.Title
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ←/→ collapse/expand  c current  ⏎ render  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty menu)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		row := m.rows[i]
		n := row.node

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := "•"
		switch {
		case n.Expandable():
			marker = "▾"
		case n.HasChildren():
			marker = "▸"
		}

		line := fmt.Sprintf("%s%s%s %s  %s", cursor, strings.Repeat("  ", row.depth), marker, n.Title, listDimStyle.Render(n.URL))
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.Current != "" && n.URL == m.Current:
			b.WriteString(listActiveStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	status := fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))
	if m.Current != "" {
		status += "  current: " + m.Current
	}
	b.WriteString(listDimStyle.Render(status))

	return b.String()
}
