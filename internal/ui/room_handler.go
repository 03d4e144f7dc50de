package ui

import (
	"github.com/Unnamed1242/mkw-sp/internal/lobby"
	"github.com/Unnamed1242/mkw-sp/internal/protocol"
	"github.com/Unnamed1242/mkw-sp/internal/settings"
	"github.com/Unnamed1242/mkw-sp/internal/sound"
)

var _ lobby.Handler = (*RoomModel)(nil)

// --- lobby 回调 ---

func (m *RoomModel) OnError(code uint32) {
	m.play(sound.CueError)
	m.logf("⚠️ %v", protocol.NewRoomError(code))
}

func (m *RoomModel) OnSetup() {
	m.logf("🔌 已连接，正在加入房间...")
}

func (m *RoomModel) OnMain() {
	m.logf("🏠 进入房间")
}

func (m *RoomModel) OnTeamSelect() {
	m.play(sound.CueStart)
	m.logf("🚩 选择队伍")
}

func (m *RoomModel) OnSelect() {
	m.play(sound.CueStart)
	m.logf("🗳️ 选择赛道")
}

func (m *RoomModel) OnSettingsChange(values settings.Values) {
	m.logf("⚙️ 房间设置已更新 %v", values)
}

func (m *RoomModel) OnPlayerJoin(mii protocol.Mii, loc protocol.Location) {
	m.play(sound.CueJoin)
	m.logf("➕ 玩家加入 (地区 %d)", loc.Location)
}

func (m *RoomModel) OnPlayerLeave(playerID int) {
	m.play(sound.CueLeave)
	m.logf("➖ P%d 离开", playerID+1)
}

func (m *RoomModel) OnReceiveComment(playerID int, messageID uint32) {
	m.play(sound.CueComment)
	m.logf("💬 P%d: #%d", playerID+1, messageID)
}

func (m *RoomModel) OnReceiveTeamSelect(playerID int, teamID uint32) {
	m.logf("🚩 P%d → 队伍 %d", playerID+1, teamID+1)
}

func (m *RoomModel) OnReceivePulse(playerID int) {
	m.logf("✅ P%d 已投票", playerID+1)
}

func (m *RoomModel) OnReceiveInfo(playerID int, course, selectedPlayer, character, vehicle uint32) {
	m.logf("📋 P%d 赛道 %d (选中 P%d)", playerID+1, course, selectedPlayer+1)
}
