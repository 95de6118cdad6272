// # cmd/tokenbridge/ui.go
package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tokenbridge/internal/build"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	skipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list        list.Model
	events      []buildEvent
	lastBuild   *build.Result
	tokenGroups int
	lastUpdate  time.Time
}

type updateMsg struct {
	events      []buildEvent
	lastBuild   *build.Result
	tokenGroups int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.events = msg.events
		m.lastBuild = msg.lastBuild
		m.tokenGroups = msg.tokenGroups
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for i := len(m.events) - 1; i >= 0; i-- {
			e := m.events[i]
			items = append(items, eventListItem(e))
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func eventListItem(e buildEvent) item {
	file := filepath.Base(e.File)
	if !e.Relevant {
		return item{
			title: "Ignored Change",
			desc:  fmt.Sprintf("%s at %s (not reachable from token entries)", file, e.When.Format("15:04:05")),
		}
	}
	if e.Result != nil && e.Result.Err != nil {
		return item{
			title: "Build Failed",
			desc:  fmt.Sprintf("%s: %v", file, e.Result.Err),
		}
	}
	duration := time.Duration(0)
	if e.Result != nil {
		duration = e.Result.Duration
	}
	return item{
		title: "Rebuilt Tokens",
		desc:  fmt.Sprintf("%s in %v at %s", file, duration.Round(time.Millisecond), e.When.Format("15:04:05")),
	}
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d token groups | %d events",
		m.lastUpdate.Format("15:04:05"), m.tokenGroups, len(m.events)))

	var summary string
	switch {
	case m.lastBuild == nil:
		summary = skipStyle.Render("… Waiting for first build")
	case m.lastBuild.Err != nil:
		summary = failStyle.Render(fmt.Sprintf("✗ Build %s failed", shortID(m.lastBuild.RunID)))
	default:
		summary = successStyle.Render(fmt.Sprintf("✓ Build %s ok (%d outputs)", shortID(m.lastBuild.RunID), len(m.lastBuild.Outputs)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Design Token Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Build Activity"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
