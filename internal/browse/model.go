// Package browse is an interactive viewer for validation reports.
package browse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"tzvalidate/internal/report"
)

type screen int

const (
	zoneScreen screen = iota
	itemScreen
)

// chrome is the number of lines taken by the title and footer.
const chrome = 4

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	overlapStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

const helpText = "enter opens the selected zone, esc returns to the zone list, " +
	"j/k or up/down move the cursor, pgup/pgdown scroll a page, " +
	"? toggles this help and q quits. Items marked * resolved to the " +
	"earlier instant of an overlap."

// Model is the bubbletea model of the viewer.
type Model struct {
	vd     *report.ValidationData
	zones  []string
	zoneTb table.Model
	itemTb table.Model
	screen screen
	zone   string
	help   bool
	width  int
	height int
}

// New builds a model positioned on the zone list.
func New(vd *report.ValidationData) Model {
	zones := vd.Zones()
	rows := make([]table.Row, 0, len(zones))
	for _, z := range zones {
		e := vd.TestData[z]
		rows = append(rows, table.Row{z, strconv.Itoa(len(e.Transitions)), strconv.Itoa(len(e.Samples))})
	}
	zt := table.New(
		table.WithColumns([]table.Column{
			{Title: "Zone", Width: 32},
			{Title: "Transitions", Width: 11},
			{Title: "Samples", Width: 8},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	it := table.New(
		table.WithColumns([]table.Column{
			{Title: "UTC", Width: 20},
			{Title: "Local", Width: 19},
			{Title: "Total", Width: 7},
			{Title: "DST", Width: 6},
			{Title: "Abbrev", Width: 7},
			{Title: "T", Width: 2},
		}),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	return Model{vd: vd, zones: zones, zoneTb: zt, itemTb: it}
}

// Zone returns the zone shown on the item screen, or "".
func (m Model) Zone() string { return m.zone }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "?":
			m.help = !m.help
			return m, nil
		case "enter":
			if m.screen == zoneScreen {
				if row := m.zoneTb.SelectedRow(); row != nil {
					m.open(row[0])
				}
			}
			return m, nil
		case "esc", "backspace":
			if m.help {
				m.help = false
			} else {
				m.screen = zoneScreen
				m.zone = ""
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	if m.screen == zoneScreen {
		m.zoneTb, cmd = m.zoneTb.Update(msg)
	} else {
		m.itemTb, cmd = m.itemTb.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	th := h - chrome
	if th < 3 {
		th = 3
	}
	m.zoneTb.SetHeight(th)
	m.itemTb.SetHeight(th)
	m.zoneTb.SetWidth(w)
	m.itemTb.SetWidth(w)
}

func (m *Model) open(zone string) {
	e, ok := m.vd.TestData[zone]
	if !ok {
		return
	}
	base := report.EpochOffset(m.vd.EpochYear)
	rows := make([]table.Row, 0, len(e.Transitions)+len(e.Samples))
	for _, items := range [][]report.TestItem{e.Transitions, e.Samples} {
		for _, it := range items {
			rows = append(rows, itemRow(it, base))
		}
	}
	m.itemTb.SetRows(rows)
	m.itemTb.GotoTop()
	m.zone = zone
	m.screen = itemScreen
}

func itemRow(it report.TestItem, base int64) table.Row {
	utc := time.Unix(it.Epoch+base, 0).UTC().Format("2006-01-02T15:04:05Z")
	local := fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", it.Year, it.Month, it.Day, it.Hour, it.Minute, it.Second)
	typ := it.Type
	if it.Resolution == "overlap" {
		typ += "*"
	}
	return table.Row{utc, local, strconv.Itoa(it.TotalOffset), strconv.Itoa(it.DstOffset), it.Abbrev, typ}
}

func (m Model) View() string {
	if m.help {
		width := m.width
		if width <= 0 {
			width = 60
		}
		return titleStyle.Render("Help") + "\n\n" + wordwrap.String(helpText, width)
	}
	var b strings.Builder
	switch m.screen {
	case zoneScreen:
		b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s  %d-%d  (%d zones)",
			m.vd.Source, m.vd.Version, m.vd.StartYear, m.vd.UntilYear, len(m.zones))))
		b.WriteString("\n")
		b.WriteString(m.zoneTb.View())
	case itemScreen:
		b.WriteString(titleStyle.Render(m.zone))
		if n := m.overlaps(); n > 0 {
			b.WriteString("  " + overlapStyle.Render(fmt.Sprintf("%d overlap", n)))
		}
		b.WriteString("\n")
		b.WriteString(m.itemTb.View())
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("enter open • esc back • ? help • q quit"))
	return b.String()
}

func (m Model) overlaps() int {
	n := 0
	for _, it := range m.vd.TestData[m.zone].Samples {
		if it.Resolution == "overlap" {
			n++
		}
	}
	return n
}
