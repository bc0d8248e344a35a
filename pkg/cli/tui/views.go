package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/airwave-net/airwave/pkg/cli/api"
)

var (
	// titleStyle renders the application title bar.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("33")).
			Padding(0, 1)

	// activeTabStyle renders the currently selected tab label.
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("33")).
			Padding(0, 2)

	// inactiveTabStyle renders unselected tab labels.
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	// headerCellStyle is used for table column headers.
	headerCellStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("12")).
				PaddingRight(1)

	// rowStyle is used for odd-numbered table rows.
	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingRight(1)

	// altRowStyle is used for even-numbered table rows (zebra striping).
	altRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Background(lipgloss.Color("236")).
			PaddingRight(1)

	// dimStyle is used for "no data" messages.
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	// statusBarStyle renders the bottom status bar.
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(1)

	// errorStyle renders error messages.
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true).
			PaddingLeft(1)
)

// renderTable renders headers plus rows with zebra striping, each cell
// padded to colWidth.
func renderTable(headers []string, rows [][]string, colWidth int) string {
	var sb strings.Builder

	var headerCells []string
	for _, h := range headers {
		headerCells = append(headerCells, headerCellStyle.Render(pad(h, colWidth)))
	}
	sb.WriteString(strings.Join(headerCells, ""))
	sb.WriteString("\n")

	for i, row := range rows {
		style := rowStyle
		if i%2 == 1 {
			style = altRowStyle
		}
		var cells []string
		for _, c := range row {
			cells = append(cells, style.Render(pad(c, colWidth)))
		}
		sb.WriteString(strings.Join(cells, ""))
		sb.WriteString("\n")
	}

	return sb.String()
}

// pad truncates or right-pads s to exactly width runes.
func pad(s string, width int) string {
	if width < 4 {
		width = 4
	}
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}

func colWidth(total, cols int) int {
	if cols == 0 {
		return total
	}
	w := total/cols - 2
	if w < 8 {
		w = 8
	}
	return w
}

func renderLANs(lans []api.WirelessLANInfo, width int) string {
	if len(lans) == 0 {
		return dimStyle.Render("No wireless LANs.")
	}
	headers := []string{"ID", "SSID", "VLAN", "DESCRIPTION"}
	rows := make([][]string, 0, len(lans))
	for _, lan := range lans {
		vlan := "-"
		if lan.VLAN != nil {
			vlan = lan.VLAN.Display
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", lan.ID), lan.SSID, vlan, lan.Description,
		})
	}
	return renderTable(headers, rows, colWidth(width, len(headers)))
}

func renderLinks(links []api.WirelessLinkInfo, width int) string {
	if len(links) == 0 {
		return dimStyle.Render("No wireless links.")
	}
	headers := []string{"ID", "INTERFACE_A", "INTERFACE_B", "SSID"}
	rows := make([][]string, 0, len(links))
	for _, link := range links {
		a, b := "-", "-"
		if link.InterfaceA != nil {
			a = link.InterfaceA.Device + "/" + link.InterfaceA.Name
		}
		if link.InterfaceB != nil {
			b = link.InterfaceB.Device + "/" + link.InterfaceB.Name
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", link.ID), a, b, link.SSID,
		})
	}
	return renderTable(headers, rows, colWidth(width, len(headers)))
}

func renderVLANs(vlans []api.VLANInfo, width int) string {
	if len(vlans) == 0 {
		return dimStyle.Render("No VLANs.")
	}
	headers := []string{"ID", "VID", "NAME"}
	rows := make([][]string, 0, len(vlans))
	for _, v := range vlans {
		rows = append(rows, []string{
			fmt.Sprintf("%d", v.ID), fmt.Sprintf("%d", v.VID), v.Name,
		})
	}
	return renderTable(headers, rows, colWidth(width, len(headers)))
}
