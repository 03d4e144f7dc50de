package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Unnamed1242/mkw-sp/internal/lobby"
	"github.com/Unnamed1242/mkw-sp/internal/protocol"
)

var stateTitles = map[lobby.State]string{
	lobby.StateConnect:    "🔌 正在连接",
	lobby.StateSetup:      "⏳ 正在加入房间",
	lobby.StateMain:       "🏠 房间",
	lobby.StateTeamSelect: "🚩 选择队伍",
	lobby.StateSelect:     "🗳️ 选择赛道",
	lobby.StateRace:       "🏁 比赛中",
}

func (m *RoomModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle(stateTitles[m.state]))
	if m.snap != nil {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  %s  %s", m.snap.ServerAddr, m.snap.SessionID)))
	}
	sb.WriteString("\n\n")

	if m.snap != nil {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			boxStyle.Render(m.rosterView()),
			"  ",
			boxStyle.Render(m.settingsView()),
		))
		sb.WriteString("\n")
	}

	for _, line := range m.lines {
		sb.WriteString(line + "\n")
	}

	if m.fatal != nil {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("\n%v\n\n按 ESC 退出", m.fatal)))
		return docStyle.Render(sb.String())
	}

	if m.notice != "" {
		sb.WriteString(noticeStyle.Render(m.notice) + "\n")
	}
	sb.WriteString(promptStyle.Render(m.input.View()))
	return docStyle.Render(sb.String())
}

// rosterView 渲染玩家列表
func (m *RoomModel) rosterView() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("玩家 %d/%d", len(m.snap.Players), protocol.MaxPlayers))
	if m.state == lobby.StateSelect {
		sb.WriteString(fmt.Sprintf("  已投票 %d", m.snap.VoteCount))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", 28) + "\n")

	for _, p := range m.snap.Players {
		name := fmt.Sprintf("P%-2d", p.ID+1)
		if p.Local {
			name = localStyle.Render(name + "*")
		} else {
			name += " "
		}

		team := dimStyle.Render("--")
		if p.TeamID != protocol.UnassignedTeam {
			team = teamStyle(p.TeamID).Render(fmt.Sprintf("T%d", p.TeamID+1))
		}

		course := dimStyle.Render("--")
		if p.Course != protocol.NoCourse {
			course = fmt.Sprintf("%2d", p.Course)
		}
		sb.WriteString(fmt.Sprintf("%s %s %s  地区 %d\n", name, team, course, p.Location))
	}
	return sb.String()
}

func (m *RoomModel) settingsView() string {
	var sb strings.Builder
	sb.WriteString("房间设置\n")
	sb.WriteString(strings.Repeat("─", 28) + "\n")
	for _, s := range m.snap.Settings {
		sb.WriteString(fmt.Sprintf("%-20s %s\n", strings.TrimPrefix(s.Name, "Room"), s.Label))
	}
	return sb.String()
}
