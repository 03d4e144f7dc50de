// Package protocol defines the room protocol vocabulary shared by the codec,
// the transport and the lobby state machine.
package protocol

// Room limits
const (
	MaxPlayers      = 12 // 房间最大人数
	MaxLocalPlayers = 4  // 单台设备最多本地玩家
	MiiSize         = 76 // Mii 原始数据长度
	CommentCount    = 96 // 预设聊天语句数量
	TeamCount       = 6  // 队伍槽位数量
	GamemodeCount   = 3  // 可用游戏模式数量

	UnassignedTeam uint32 = 0xFFFFFFFF
	NoCourse       uint32 = 0xFFFFFFFF
)

// Mii is the raw avatar blob of one player. It is a value type so copies never alias.
type Mii [MiiSize]byte

// EventKind identifies a room event variant.
type EventKind int

// 服务端 → 客户端 事件类型
const (
	EventUnknown EventKind = iota
	EventJoin
	EventLeave
	EventComment
	EventSettings
	EventStart
	EventTeamSelect
	EventSelectPulse
	EventSelectInfo
	EventVote
)

var eventKindNames = map[EventKind]string{
	EventUnknown:     "unknown",
	EventJoin:        "join",
	EventLeave:       "leave",
	EventComment:     "comment",
	EventSettings:    "settings",
	EventStart:       "start",
	EventTeamSelect:  "team_select",
	EventSelectPulse: "select_pulse",
	EventSelectInfo:  "select_info",
	EventVote:        "vote",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is a decoded server → client room event. The set of variants is closed.
type Event interface {
	Kind() EventKind
	isRoomEvent()
}

// RequestKind identifies a room request variant.
type RequestKind int

// 客户端 → 服务端 请求类型
const (
	RequestJoin RequestKind = iota + 1
	RequestComment
	RequestStart
	RequestSettings
	RequestTeamSelect
	RequestVote
)

var requestKindNames = map[RequestKind]string{
	RequestJoin:       "join",
	RequestComment:    "comment",
	RequestStart:      "start",
	RequestSettings:   "settings",
	RequestTeamSelect: "team_select",
	RequestVote:       "vote",
}

func (k RequestKind) String() string {
	if name, ok := requestKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Request is a client → server room request. The set of variants is closed.
type Request interface {
	Kind() RequestKind
	isRoomRequest()
}
