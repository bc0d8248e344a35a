// Package tui provides the interactive terminal dashboard for airwavectl.
// It is built on the bubbletea/lipgloss stack and renders three tabs:
// Wireless LANs, Wireless Links, and VLANs. Data is refreshed every 2
// seconds from the Airwave API server.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/airwave-net/airwave/pkg/cli/api"
)

// tab identifies the currently active dashboard tab.
type tab int

const (
	tabLANs tab = iota
	tabLinks
	tabVLANs
	tabCount // sentinel, must stay last
)

const refreshInterval = 2 * time.Second

// tickMsg is sent every refreshInterval to trigger a data refresh.
type tickMsg time.Time

// dataMsg carries a freshly fetched dataset.
type dataMsg struct {
	lans   []api.WirelessLANInfo
	links  []api.WirelessLinkInfo
	vlans  []api.VLANInfo
	status *api.StatusInfo
}

// errMsg carries a fetch or decode error to display in the status bar.
type errMsg error

// Model is the top-level bubbletea model for the dashboard.
type Model struct {
	client    api.APIClient
	serverURL string

	tabs      []string
	activeTab tab
	lans      []api.WirelessLANInfo
	links     []api.WirelessLinkInfo
	vlans     []api.VLANInfo
	status    *api.StatusInfo
	width     int
	height    int
	err       error
	loading   bool
	lastFetch time.Time
}

// New returns a Model that fetches data through client. serverURL is only
// used for display in the status bar.
func New(client api.APIClient, serverURL string) Model {
	return Model{
		client:    client,
		serverURL: serverURL,
		tabs:      []string{"Wireless LANs", "Wireless Links", "VLANs"},
		loading:   true,
	}
}

// Init starts the periodic tick and issues the first data fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), fetchData(m.client))
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update processes messages and returns an updated model plus any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "left", "h":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1":
			m.activeTab = tabLANs
		case "2":
			m.activeTab = tabLinks
		case "3":
			m.activeTab = tabVLANs
		case "r":
			m.loading = true
			m.err = nil
			return m, fetchData(m.client)
		}
		return m, nil

	case tickMsg:
		m.loading = true
		m.err = nil
		return m, tea.Batch(tick(), fetchData(m.client))

	case dataMsg:
		m.loading = false
		m.err = nil
		m.lans = msg.lans
		m.links = msg.links
		m.vlans = msg.vlans
		m.status = msg.status
		m.lastFetch = time.Now()
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg
		return m, nil
	}

	return m, nil
}

// View renders the entire dashboard to a string.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("  Airwave Dashboard  "))
	sb.WriteString("\n")

	var tabParts []string
	for i, name := range m.tabs {
		label := fmt.Sprintf(" %d: %s ", i+1, name)
		if tab(i) == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
	}
	sb.WriteString(strings.Join(tabParts, ""))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", m.width))
	sb.WriteString("\n")

	contentHeight := m.height - 5 // title(1) + tabs(1) + divider(1) + status(2)
	if contentHeight < 1 {
		contentHeight = 1
	}
	sb.WriteString(clipLines(m.renderActiveTab(), contentHeight))
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat("─", m.width))
	sb.WriteString("\n")
	sb.WriteString(m.renderStatus())

	return sb.String()
}

func (m Model) renderActiveTab() string {
	w := m.width - 2
	switch m.activeTab {
	case tabLANs:
		return renderLANs(m.lans, w)
	case tabLinks:
		return renderLinks(m.links, w)
	case tabVLANs:
		return renderVLANs(m.vlans, w)
	default:
		return ""
	}
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	parts := []string{
		fmt.Sprintf("server: %s", m.serverURL),
	}
	if m.status != nil {
		parts = append(parts, fmt.Sprintf("lans: %d  links: %d  vlans: %d",
			m.status.WirelessLANs, m.status.WirelessLinks, m.status.VLANs))
	}
	if !m.lastFetch.IsZero() {
		parts = append(parts, fmt.Sprintf("last refresh: %s", m.lastFetch.Format("15:04:05")))
	}
	if m.loading {
		parts = append(parts, "refreshing...")
	}
	parts = append(parts, "q: quit  tab: next tab  r: refresh")

	return statusBarStyle.Render(strings.Join(parts, "  |  "))
}

// clipLines limits the string s to at most maxLines newline-delimited lines.
func clipLines(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	return strings.Join(lines[:maxLines], "\n")
}

// fetchData pulls all three collections plus the status counters and
// returns a dataMsg, or errMsg on the first failure.
func fetchData(client api.APIClient) tea.Cmd {
	return func() tea.Msg {
		lans, err := client.ListWirelessLANs()
		if err != nil {
			return errMsg(err)
		}
		links, err := client.ListWirelessLinks()
		if err != nil {
			return errMsg(err)
		}
		vlans, err := client.ListVLANs()
		if err != nil {
			return errMsg(err)
		}
		status, err := client.Status()
		if err != nil {
			return errMsg(err)
		}
		return dataMsg{lans: lans, links: links, vlans: vlans, status: status}
	}
}
