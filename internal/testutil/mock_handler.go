//go:build !production

package testutil

import (
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/Unnamed1242/mkw-sp/internal/protocol"
	"github.com/Unnamed1242/mkw-sp/internal/settings"
)

// MockHandler 实现 lobby.Handler 的 mock
type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) OnError(code uint32) { m.Called(code) }
func (m *MockHandler) OnSetup()            { m.Called() }
func (m *MockHandler) OnMain()             { m.Called() }
func (m *MockHandler) OnTeamSelect()       { m.Called() }
func (m *MockHandler) OnSelect()           { m.Called() }

func (m *MockHandler) OnSettingsChange(values settings.Values) {
	m.Called(values)
}

func (m *MockHandler) OnPlayerJoin(mii protocol.Mii, loc protocol.Location) {
	m.Called(mii, loc)
}

func (m *MockHandler) OnPlayerLeave(playerID int) {
	m.Called(playerID)
}

func (m *MockHandler) OnReceiveComment(playerID int, messageID uint32) {
	m.Called(playerID, messageID)
}

func (m *MockHandler) OnReceiveTeamSelect(playerID int, teamID uint32) {
	m.Called(playerID, teamID)
}

func (m *MockHandler) OnReceivePulse(playerID int) {
	m.Called(playerID)
}

func (m *MockHandler) OnReceiveInfo(playerID int, course, selectedPlayer, character, vehicle uint32) {
	m.Called(playerID, course, selectedPlayer, character, vehicle)
}

// RecordingHandler 简单的 handler，按顺序记录每次回调（用于不需要 mock 断言的测试）
type RecordingHandler struct {
	Calls    []string
	Errors   []uint32
	Settings []settings.Values
	Joined   []protocol.Mii
}

func (h *RecordingHandler) record(format string, args ...any) {
	h.Calls = append(h.Calls, fmt.Sprintf(format, args...))
}

func (h *RecordingHandler) OnError(code uint32) {
	h.Errors = append(h.Errors, code)
	h.record("error %d", code)
}

func (h *RecordingHandler) OnSetup()      { h.record("setup") }
func (h *RecordingHandler) OnMain()       { h.record("main") }
func (h *RecordingHandler) OnTeamSelect() { h.record("team_select") }
func (h *RecordingHandler) OnSelect()     { h.record("select") }

func (h *RecordingHandler) OnSettingsChange(values settings.Values) {
	h.Settings = append(h.Settings, values.Clone())
	h.record("settings %v", []uint32(values))
}

func (h *RecordingHandler) OnPlayerJoin(mii protocol.Mii, _ protocol.Location) {
	h.Joined = append(h.Joined, mii)
	h.record("join")
}

func (h *RecordingHandler) OnPlayerLeave(playerID int) {
	h.record("leave %d", playerID)
}

func (h *RecordingHandler) OnReceiveComment(playerID int, messageID uint32) {
	h.record("comment %d %d", playerID, messageID)
}

func (h *RecordingHandler) OnReceiveTeamSelect(playerID int, teamID uint32) {
	h.record("team %d %d", playerID, teamID)
}

func (h *RecordingHandler) OnReceivePulse(playerID int) {
	h.record("pulse %d", playerID)
}

func (h *RecordingHandler) OnReceiveInfo(playerID int, course, selectedPlayer, character, vehicle uint32) {
	h.record("info %d %d %d %d %d", playerID, course, selectedPlayer, character, vehicle)
}

// Count returns how many recorded calls equal call.
func (h *RecordingHandler) Count(call string) int {
	n := 0
	for _, c := range h.Calls {
		if c == call {
			n++
		}
	}
	return n
}
