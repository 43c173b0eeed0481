// Package tui is the terminal candidate dashboard of portalctl.
//
// It follows the bubbletea loop: key presses become navigation, navigation
// starts a page load through dashboard.Loader, and the loaded page comes back
// as a message. Only the latest load is applied.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/dashboard"
	"github.com/yigit/interviewportal/internal/pkg/helpers"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	tableBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4A5568"))
)

const keyHints = "n/→ next · p/← prev · g first · G last · s page size · r reload · q quit"

// pageLoadedMsg carries a finished fetch back into the loop
type pageLoadedMsg struct {
	gen  uint64
	page dashboard.Page
}

// Dashboard is the bubbletea model of the candidate grid
type Dashboard struct {
	ctx     context.Context
	loader  *dashboard.Loader
	user    models.SessionUser
	columns []dashboard.Column

	state   dashboard.State
	table   table.Model
	spinner spinner.Model
	loading bool
	err     error

	width  int
	height int
}

// NewDashboard builds the model for user. Loads run under ctx.
func NewDashboard(ctx context.Context, loader *dashboard.Loader, user models.SessionUser, pageSize int) *Dashboard {
	columns := gridColumns(user.Role)

	tableColumns := make([]table.Column, 0, len(columns))
	for _, c := range columns {
		tableColumns = append(tableColumns, table.Column{Title: c.Header, Width: c.Width})
	}
	grid := table.New(
		table.WithColumns(tableColumns),
		table.WithFocused(true),
		table.WithHeight(helpers.DefaultPageSize+1),
	)

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(titleStyle),
	)

	return &Dashboard{
		ctx:     ctx,
		loader:  loader,
		user:    user,
		columns: columns,
		state:   dashboard.NewState(0, pageSize),
		table:   grid,
		spinner: spin,
	}
}

// gridColumns drops the Action column, which only links to the web form
func gridColumns(role models.Role) []dashboard.Column {
	var columns []dashboard.Column
	for _, c := range dashboard.Columns(role) {
		if c.Key == dashboard.ColumnAction {
			continue
		}
		columns = append(columns, c)
	}
	return columns
}

func (d *Dashboard) Init() tea.Cmd {
	return d.load(d.state)
}

// load starts fetching st. Any load still in flight is cancelled.
func (d *Dashboard) load(st dashboard.State) tea.Cmd {
	gen, ctx := d.loader.Begin(d.ctx, st)
	d.loading = true
	fetch := func() tea.Msg {
		return pageLoadedMsg{gen: gen, page: d.loader.Fetch(ctx, st)}
	}
	return tea.Batch(d.spinner.Tick, fetch)
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.table.SetHeight(max(3, msg.Height-8))
		return d, nil

	case pageLoadedMsg:
		if !d.loader.Apply(msg.gen, msg.page) {
			return d, nil
		}
		d.loading = false
		d.state = msg.page.State
		d.err = msg.page.Err
		d.table.SetRows(d.rows(msg.page.Rows))
		d.table.GotoTop()
		return d, nil

	case spinner.TickMsg:
		if !d.loading {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return d, tea.Quit
		}
		if d.loading {
			return d, nil
		}
		if cmd, ok := d.navigate(msg.String()); ok {
			return d, cmd
		}
	}

	var cmd tea.Cmd
	d.table, cmd = d.table.Update(msg)
	return d, cmd
}

// navigate maps a key to a page change. Keys that would not move are ignored.
func (d *Dashboard) navigate(key string) (tea.Cmd, bool) {
	var next dashboard.State
	switch key {
	case "n", "right":
		if !d.state.CanNext() {
			return nil, true
		}
		next = d.state.Next()
	case "p", "left":
		if !d.state.CanPrev() {
			return nil, true
		}
		next = d.state.Prev()
	case "g", "home":
		if !d.state.CanPrev() {
			return nil, true
		}
		next = d.state.First()
	case "G", "end":
		if !d.state.CanNext() {
			return nil, true
		}
		next = d.state.Last()
	case "s":
		next = d.state.SetSize(nextPageSize(d.state.Size))
	case "r":
		next = d.state
	default:
		return nil, false
	}
	return d.load(next), true
}

func nextPageSize(current int) int {
	sizes := helpers.AllowedPageSizes
	for i, size := range sizes {
		if size == current {
			return sizes[(i+1)%len(sizes)]
		}
	}
	return helpers.DefaultPageSize
}

func (d *Dashboard) rows(candidates []models.Candidate) []table.Row {
	rows := make([]table.Row, 0, len(candidates))
	for _, candidate := range candidates {
		row := make(table.Row, 0, len(d.columns))
		for _, c := range d.columns {
			row = append(row, dashboard.Cell(candidate, c.Key))
		}
		rows = append(rows, row)
	}
	return rows
}

func (d *Dashboard) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Candidates · %s (%s)", d.user.Email, d.user.Role)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	b.WriteString(tableBorder.Render(d.table.View()))
	b.WriteString("\n")

	switch {
	case d.loading:
		b.WriteString(d.spinner.View() + " Loading candidates...")
	case d.err != nil:
		b.WriteString(errorStyle.Render("Failed to load candidates: " + d.err.Error()))
	default:
		b.WriteString(footerStyle.Render(d.footer()))
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(keyHints))
	return b.String()
}

func (d *Dashboard) footer() string {
	start, end := d.state.Window()
	return fmt.Sprintf("%d - %d of %d · Page %d of %d · %d per page",
		start, end, d.state.Total, d.state.PageNumber(), d.state.TotalPages(), d.state.Size)
}

// State returns the pagination position shown
func (d *Dashboard) State() dashboard.State {
	return d.state
}

// Loading reports whether a page load is in flight
func (d *Dashboard) Loading() bool {
	return d.loading
}
