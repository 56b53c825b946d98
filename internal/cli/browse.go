package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/coral/pkg/coral"
	"github.com/matzehuels/coral/pkg/graph"
)

// browseCommand creates the browse command, an interactive strand table.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		lf      layoutFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "browse [coral.json]",
		Short: "Browse the strands of a coral interactively",
		Long: `Browse lists every strand of a coral with its length and end points.

With a file argument the coral is read from a document written by
"coral generate -f json" (or msgpack). Without one it is generated from the
layout flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				doc graph.Coral
				err error
			)
			if len(args) == 1 {
				doc, err = graph.ReadCoralFile(args[0])
			} else {
				doc, err = c.layoutFromFlags(cmd.Context(), &lf, noCache)
			}
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(newStrandModel(doc), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	lf.register(cmd.Flags())
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) layoutFromFlags(ctx context.Context, lf *layoutFlags, noCache bool) (graph.Coral, error) {
	opts, err := lf.options()
	if err != nil {
		return graph.Coral{}, err
	}
	runner, err := c.newRunner(noCache)
	if err != nil {
		return graph.Coral{}, err
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Coral{}, err
	}

	spinner := newSpinner(ctx, "Building graph...")
	spinner.Start()
	g, err := runner.Build(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return graph.Coral{}, err
	}
	spinner.SetMessage(fmt.Sprintf("Laying out %d nodes...", g.Len()))
	doc, err := runner.Layout(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return graph.Coral{}, err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Laid out %d strands", doc.Stats.Strands))
	return doc, nil
}

// =============================================================================
// strandModel - Interactive strand table
// =============================================================================

var (
	browseHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	browseSelectedStyle = lipgloss.NewStyle().Foreground(colorCoral).Bold(true)
	browseNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	browseDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// strandRow is the precomputed summary of one strand.
type strandRow struct {
	points int
	start  coral.Point
	end    coral.Point
	length float64
}

type strandModel struct {
	config graph.Config
	stats  coral.Stats
	rows   []strandRow
	cursor int
	offset int
	height int
}

func newStrandModel(doc graph.Coral) strandModel {
	strands := doc.Layout()
	rows := make([]strandRow, len(strands))
	for i, s := range strands {
		rows[i] = summarizeStrand(s)
	}
	return strandModel{config: doc.Config, stats: doc.Stats, rows: rows, height: 15}
}

func summarizeStrand(s coral.Strand) strandRow {
	r := strandRow{points: len(s)}
	if len(s) == 0 {
		return r
	}
	r.start, r.end = s[0], s[len(s)-1]
	for i := 1; i < len(s); i++ {
		a, b := s[i-1], s[i]
		r.length += math.Sqrt((b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y) + (b.Z-a.Z)*(b.Z-a.Z))
	}
	return r
}

func (m strandModel) Init() tea.Cmd {
	return nil
}

func (m strandModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.height)
		case "pgdown", " ":
			m.move(m.height)
		case "home", "g":
			m.move(-len(m.rows))
		case "end", "G":
			m.move(len(m.rows))
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-10, 5)
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta and scrolls to keep it visible.
func (m *strandModel) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.rows)-1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m strandModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Coral · limit %d", m.config.Limit)))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("%d strands · %d points · depth %d · odd %g° even %g°",
		m.stats.Strands, m.stats.Points, m.stats.Depth, m.config.Odd, m.config.Even)))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ navigate  pgup/pgdn page  g/G ends  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(browseDimStyle.Render("  no strands"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.offset+m.height, len(m.rows))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", r.points),
			fmtPoint(r.start),
			fmtPoint(r.end),
			fmt.Sprintf("%.1f", r.length),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Points", "Start", "End", "Length").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return browseHeaderStyle
			case m.offset+row == m.cursor:
				return browseSelectedStyle
			case col == 3 || col == 4:
				return browseDimStyle
			default:
				return browseNormalStyle
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	return b.String()
}

func fmtPoint(p coral.Point) string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", p.X, p.Y, p.Z)
}
