package ui

import "github.com/charmbracelet/lipgloss"

var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptStyle = lipgloss.NewStyle().MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	localStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// 队伍颜色，按队伍编号
var teamColors = []lipgloss.Color{"196", "33", "226", "46", "201", "208"}

func teamStyle(team uint32) lipgloss.Style {
	if int(team) < len(teamColors) {
		return lipgloss.NewStyle().Foreground(teamColors[team]).Bold(true)
	}
	return dimStyle
}
