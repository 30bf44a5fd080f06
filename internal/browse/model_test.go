package browse

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tzvalidate/internal/report"
)

func testData() *report.ValidationData {
	return &report.ValidationData{
		StartYear: 2000,
		UntilYear: 2001,
		EpochYear: 1970,
		Source:    "table",
		Version:   "1",
		TestData: report.TestData{
			"Test/B": {
				Transitions: []report.TestItem{
					{Epoch: 959817599, TotalOffset: 0, Year: 2000, Month: 5, Day: 31, Hour: 23, Minute: 59, Second: 59, Abbrev: "UTC", Type: "A"},
					{Epoch: 959817600, TotalOffset: 3600, Year: 2000, Month: 6, Day: 1, Hour: 1, Abbrev: "CET", Type: "B"},
				},
				Samples: []report.TestItem{
					{Epoch: 972349200, TotalOffset: 0, Year: 2000, Month: 10, Day: 29, Hour: 1, Abbrev: "UTC", Type: "T", Resolution: "overlap"},
				},
			},
			"Test/A": {},
		},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	mi, _ := m.Update(msg)
	return mi.(Model)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestZoneListSorted(t *testing.T) {
	m := New(testData())
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})
	view := m.View()
	if !strings.Contains(view, "Test/A") || !strings.Contains(view, "Test/B") {
		t.Fatalf("zone list missing zones:\n%s", view)
	}
	if strings.Index(view, "Test/A") > strings.Index(view, "Test/B") {
		t.Fatalf("zones not sorted:\n%s", view)
	}
}

func TestOpenZoneAndBack(t *testing.T) {
	m := New(testData())
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Zone() != "Test/B" {
		t.Fatalf("zone = %q, want Test/B", m.Zone())
	}
	if got := len(m.itemTb.Rows()); got != 3 {
		t.Fatalf("item rows = %d, want 3", got)
	}
	view := m.View()
	if !strings.Contains(view, "2000-05-31T23:59:59Z") {
		t.Fatalf("missing UTC instant:\n%s", view)
	}
	if !strings.Contains(view, "T*") || !strings.Contains(view, "1 overlap") {
		t.Fatalf("overlap not marked:\n%s", view)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Zone() != "" || m.screen != zoneScreen {
		t.Fatalf("esc did not return to the zone list")
	}
}

func TestHelpToggle(t *testing.T) {
	m := New(testData())
	m = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 20})
	m = update(t, m, key("?"))
	view := m.View()
	if !strings.Contains(view, "Help") {
		t.Fatalf("help not shown:\n%s", view)
	}
	for _, line := range strings.Split(view, "\n") {
		if len(line) > 30 && !strings.Contains(line, "\x1b") {
			t.Fatalf("help line not wrapped: %q", line)
		}
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.help {
		t.Fatalf("esc should close help")
	}
}

func TestQuit(t *testing.T) {
	m := New(testData())
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}

func TestResizeTinyTerminal(t *testing.T) {
	m := New(testData())
	m = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 2})
	if m.width != 40 || m.height != 2 {
		t.Fatalf("size = %dx%d", m.width, m.height)
	}
	if !strings.Contains(m.View(), "Test/A") {
		t.Fatalf("first zone should stay visible")
	}
}
