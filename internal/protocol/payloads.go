package protocol

// Properties is a character/vehicle/drift selection triple.
type Properties struct {
	Character uint32
	Vehicle   uint32
	DriftType uint32
}

// PlayerProperties 选择阶段单个玩家的赛道与角色信息
type PlayerProperties struct {
	Course     uint32
	Properties Properties
}

// Location is the region data a player announces on join.
type Location struct {
	Location        uint32
	Latitude        uint16
	Longitude       uint16
	RegionLineColor uint32
}

// LoginInfo carries optional account credentials sent with the join request.
type LoginInfo struct {
	ClientID uint32
	Token    []byte
}

// --- 服务端事件 ---

// JoinEvent announces a player entering the room. Mii is kept raw so the
// size check stays a protocol check.
type JoinEvent struct {
	Mii             []byte
	Location        uint32
	Latitude        uint32
	Longitude       uint32
	RegionLineColor uint32
}

// LeaveEvent announces a player leaving the room.
type LeaveEvent struct {
	PlayerID uint32
}

// CommentEvent carries a preset chat message.
type CommentEvent struct {
	PlayerID  uint32
	MessageID uint32
}

// SettingsEvent carries the full room settings vector.
type SettingsEvent struct {
	Settings []uint32
}

// StartEvent starts the room with the given game mode.
type StartEvent struct {
	Gamemode uint32
}

// TeamSelectEvent reports a player's team.
type TeamSelectEvent struct {
	PlayerID uint32
	TeamID   uint32
}

// SelectPulseEvent reports that a player finished voting.
type SelectPulseEvent struct {
	PlayerID uint32
}

// SelectInfoEvent carries the per-player selection results.
type SelectInfoEvent struct {
	Players        []PlayerProperties
	SelectedPlayer uint32
}

// VoteEvent echoes a player's course vote.
type VoteEvent struct {
	PlayerID uint32
	Course   uint32
}

// UnknownEvent is a well-formed event whose tag this client does not recognize.
type UnknownEvent struct {
	Tag int32
}

func (JoinEvent) Kind() EventKind        { return EventJoin }
func (LeaveEvent) Kind() EventKind       { return EventLeave }
func (CommentEvent) Kind() EventKind     { return EventComment }
func (SettingsEvent) Kind() EventKind    { return EventSettings }
func (StartEvent) Kind() EventKind       { return EventStart }
func (TeamSelectEvent) Kind() EventKind  { return EventTeamSelect }
func (SelectPulseEvent) Kind() EventKind { return EventSelectPulse }
func (SelectInfoEvent) Kind() EventKind  { return EventSelectInfo }
func (VoteEvent) Kind() EventKind        { return EventVote }
func (UnknownEvent) Kind() EventKind     { return EventUnknown }

func (JoinEvent) isRoomEvent()        {}
func (LeaveEvent) isRoomEvent()       {}
func (CommentEvent) isRoomEvent()     {}
func (SettingsEvent) isRoomEvent()    {}
func (StartEvent) isRoomEvent()       {}
func (TeamSelectEvent) isRoomEvent()  {}
func (SelectPulseEvent) isRoomEvent() {}
func (SelectInfoEvent) isRoomEvent()  {}
func (VoteEvent) isRoomEvent()        {}
func (UnknownEvent) isRoomEvent()     {}

// --- 客户端请求 ---

// JoinRequest registers every local player with the room.
type JoinRequest struct {
	Passcode        uint32
	LoginInfo       *LoginInfo
	Miis            []Mii
	Location        uint32
	Latitude        uint32
	Longitude       uint32
	RegionLineColor uint32
	Settings        []uint32
}

// CommentRequest sends a preset chat message.
type CommentRequest struct {
	MessageID uint32
}

// StartRequest asks the room to start.
type StartRequest struct {
	Gamemode uint32
}

// SettingsRequest pushes the owner's room settings.
type SettingsRequest struct {
	Settings []uint32
}

// TeamSelectRequest changes a local player's team.
type TeamSelectRequest struct {
	PlayerID uint32
	TeamID   uint32
}

// VoteRequest submits a course vote, optionally with a selection triple.
type VoteRequest struct {
	Course     uint32
	Properties *Properties
}

func (JoinRequest) Kind() RequestKind       { return RequestJoin }
func (CommentRequest) Kind() RequestKind    { return RequestComment }
func (StartRequest) Kind() RequestKind      { return RequestStart }
func (SettingsRequest) Kind() RequestKind   { return RequestSettings }
func (TeamSelectRequest) Kind() RequestKind { return RequestTeamSelect }
func (VoteRequest) Kind() RequestKind       { return RequestVote }

func (JoinRequest) isRoomRequest()       {}
func (CommentRequest) isRoomRequest()    {}
func (StartRequest) isRoomRequest()      {}
func (SettingsRequest) isRoomRequest()   {}
func (TeamSelectRequest) isRoomRequest() {}
func (VoteRequest) isRoomRequest()       {}
