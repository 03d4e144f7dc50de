package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Unnamed1242/mkw-sp/internal/lobby"
	"github.com/Unnamed1242/mkw-sp/internal/logger"
	"github.com/Unnamed1242/mkw-sp/internal/sound"
	"github.com/Unnamed1242/mkw-sp/internal/storage"
)

// TickMsg drives one lobby tick.
type TickMsg time.Time

// StoreResultMsg reports the result of a background save.
type StoreResultMsg struct {
	What string
	Err  error
}

// RoomModel 房间界面 model，同时作为 lobby.Handler 接收回调
type RoomModel struct {
	room Room
	opts Options

	state     lobby.State
	snap      *lobby.RoomSnapshot
	fatal     error
	notice    string
	lines     []string
	startedAt time.Time

	input  textinput.Model
	width  int
	height int
}

// NewRoomModel creates the model for room.
func NewRoomModel(room Room, opts Options) *RoomModel {
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}

	ti := textinput.New()
	ti.Placeholder = "/help 查看命令"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	return &RoomModel{
		room:      room,
		opts:      opts,
		state:     room.State(),
		snap:      room.Snapshot(),
		startedAt: time.Now(),
		input:     ti,
	}
}

func (m *RoomModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.nextTick())
}

func (m *RoomModel) nextTick() tea.Cmd {
	return tea.Tick(m.opts.TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m *RoomModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		return m, m.tick()

	case StoreResultMsg:
		if msg.Err != nil {
			logger.LogWarn("saving %s failed: %v", msg.What, msg.Err)
			m.notice = fmt.Sprintf("⚠️ 保存%s失败: %v", msg.What, msg.Err)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			_ = m.room.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.SetValue("")
			return m, m.runCommand(line)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// tick runs one lobby frame and schedules the next one unless the session ended.
func (m *RoomModel) tick() tea.Cmd {
	if m.fatal != nil {
		return nil
	}

	err := m.room.Tick(m)
	m.refresh()

	var cmds []tea.Cmd
	if m.state != m.room.State() {
		m.state = m.room.State()
		cmds = append(cmds, m.saveSession())
	}

	if err != nil {
		m.fatal = err
		m.play(sound.CueError)
		m.logf("❌ 连接中断: %v", err)
		return tea.Batch(cmds...)
	}
	if m.state == lobby.StateRace {
		m.logf("🏁 比赛开始")
		return tea.Batch(cmds...)
	}

	cmds = append(cmds, m.nextTick())
	return tea.Batch(cmds...)
}

// refresh 更新快照并发布给调试接口
func (m *RoomModel) refresh() {
	m.snap = m.room.Snapshot()
	if m.opts.Publisher != nil {
		m.opts.Publisher.Publish(m.snap)
	}
}

func (m *RoomModel) saveSession() tea.Cmd {
	if m.opts.Store == nil || m.opts.Settings == nil {
		return nil
	}

	key := m.opts.Settings.Key()
	session := &storage.SessionData{
		SessionID:  m.snap.SessionID,
		ServerAddr: m.snap.ServerAddr,
		State:      m.snap.State,
		Players:    len(m.snap.Players),
		StartedAt:  m.startedAt.Unix(),
	}
	store := m.opts.Store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return StoreResultMsg{What: "会话记录", Err: store.SaveSession(ctx, key, session)}
	}
}

func (m *RoomModel) saveSettings() tea.Cmd {
	if m.opts.Store == nil || m.opts.Settings == nil {
		return nil
	}

	key := m.opts.Settings.Key()
	values := m.opts.Settings.RoomSettings()
	store := m.opts.Store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return StoreResultMsg{What: "房间设置", Err: store.SaveRoomSettings(ctx, key, values)}
	}
}

func (m *RoomModel) logf(format string, args ...any) {
	m.lines = append(m.lines, fmt.Sprintf(format, args...))
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}
}

func (m *RoomModel) play(cue sound.Cue) {
	if m.opts.Sound != nil {
		m.opts.Sound.Play(cue)
	}
}

// Err returns the error that ended the session, if any.
func (m *RoomModel) Err() error { return m.fatal }

// Lines returns the event log shown under the roster.
func (m *RoomModel) Lines() []string { return append([]string(nil), m.lines...) }
