package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Unnamed1242/mkw-sp/internal/protocol"
)

var errUsage = errors.New("用法错误")

const helpText = "/comment N  /start MODE  /team SEAT  /vote COURSE [CH VEH DRIFT]  /set NAME=VALUE  /race"

// runCommand 解析并执行一行输入
func (m *RoomModel) runCommand(line string) tea.Cmd {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	m.notice = ""

	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	var cmd tea.Cmd
	var err error
	switch name {
	case "/help":
		m.notice = helpText
	case "/comment":
		err = m.cmdComment(args)
	case "/start":
		err = m.cmdStart(args)
	case "/team":
		err = m.cmdTeam(args)
	case "/vote":
		err = m.cmdVote(args)
	case "/set":
		cmd, err = m.cmdSet(args)
	case "/race":
		err = m.room.BeginRace()
	default:
		err = fmt.Errorf("%w: 未知命令 %s", errUsage, name)
	}

	if err != nil {
		m.notice = "⚠️ " + err.Error()
	}
	return cmd
}

func (m *RoomModel) cmdComment(args []string) error {
	ids, err := parseUints(args, 1, 1)
	if err != nil {
		return err
	}
	return m.room.SendComment(ids[0])
}

func (m *RoomModel) cmdStart(args []string) error {
	ids, err := parseUints(args, 1, 1)
	if err != nil {
		return err
	}
	return m.room.StartRoom(ids[0])
}

// cmdTeam 按本地座位号切换队伍
func (m *RoomModel) cmdTeam(args []string) error {
	seats, err := parseUints(args, 1, 1)
	if err != nil {
		return err
	}
	id, ok := m.room.LocalPlayerID(int(seats[0]))
	if !ok {
		return fmt.Errorf("%w: 座位 %d 不在房间中", errUsage, seats[0])
	}
	return m.room.SendTeamSelect(id)
}

func (m *RoomModel) cmdVote(args []string) error {
	if len(args) != 1 && len(args) != 4 {
		return fmt.Errorf("%w: /vote COURSE [CH VEH DRIFT]", errUsage)
	}
	vals, err := parseUints(args, 1, 4)
	if err != nil {
		return err
	}

	var props *protocol.Properties
	if len(vals) == 4 {
		props = &protocol.Properties{Character: vals[1], Vehicle: vals[2], DriftType: vals[3]}
	}
	m.room.SendVote(vals[0], props)
	return nil
}

func (m *RoomModel) cmdSet(args []string) (tea.Cmd, error) {
	if m.opts.Settings == nil {
		return nil, fmt.Errorf("%w: 没有可修改的本地设置", errUsage)
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: /set NAME=VALUE", errUsage)
	}
	name, value, ok := strings.Cut(args[0], "=")
	if !ok {
		return nil, fmt.Errorf("%w: /set NAME=VALUE", errUsage)
	}

	if err := m.opts.Settings.SetRoomSetting(name, value); err != nil {
		return nil, err
	}
	m.room.ChangeLocalSettings()
	m.notice = fmt.Sprintf("%s = %s", name, value)
	return m.saveSettings(), nil
}

func parseUints(args []string, minArgs, maxArgs int) ([]uint32, error) {
	if len(args) < minArgs || len(args) > maxArgs {
		return nil, fmt.Errorf("%w: 需要 %d 个参数", errUsage, minArgs)
	}
	out := make([]uint32, len(args))
	for i, a := range args {
		v, err := strconv.ParseUint(a, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q 不是数字", errUsage, a)
		}
		out[i] = uint32(v)
	}
	return out, nil
}
