package lobby

// PlayerSnapshot is the serializable view of one player.
type PlayerSnapshot struct {
	ID              int    `json:"id"`
	Local           bool   `json:"local"`
	Location        uint32 `json:"location"`
	Latitude        uint16 `json:"latitude"`
	Longitude       uint16 `json:"longitude"`
	RegionLineColor uint32 `json:"region_line_color"`
	TeamID          uint32 `json:"team_id"`
	Course          uint32 `json:"course"`
	Character       uint32 `json:"character"`
	Vehicle         uint32 `json:"vehicle"`
	DriftType       uint32 `json:"drift_type"`
	VoteOrder       uint32 `json:"vote_order"`
}

// SettingSnapshot is one named room setting.
type SettingSnapshot struct {
	Name  string `json:"name"`
	Value uint32 `json:"value"`
	Label string `json:"label"`
}

// RoomSnapshot is an immutable copy of the session state.
type RoomSnapshot struct {
	SessionID  string            `json:"session_id"`
	ServerAddr string            `json:"server_addr"`
	State      string            `json:"state"`
	Gamemode   uint32            `json:"gamemode"`
	VoteCount  uint32            `json:"vote_count"`
	Players    []PlayerSnapshot  `json:"players"`
	Settings   []SettingSnapshot `json:"settings"`
	ErrorCode  *uint32           `json:"error_code,omitempty"`
}

// Snapshot copies the current session state.
func (c *Client) Snapshot() *RoomSnapshot {
	snap := &RoomSnapshot{
		SessionID:  c.id,
		ServerAddr: c.cfg.ServerAddr,
		State:      c.state.String(),
		Gamemode:   c.gamemode,
		VoteCount:  c.votes.count(),
		Players:    make([]PlayerSnapshot, 0, c.roster.Len()),
		Settings:   make([]SettingSnapshot, 0, c.settings.Registry().Len()),
	}

	for id, p := range c.roster.Players() {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:              id,
			Local:           c.roster.IsLocal(id),
			Location:        p.Location.Location,
			Latitude:        p.Location.Latitude,
			Longitude:       p.Location.Longitude,
			RegionLineColor: p.Location.RegionLineColor,
			TeamID:          p.TeamID,
			Course:          p.Course,
			Character:       p.Properties.Character,
			Vehicle:         p.Properties.Vehicle,
			DriftType:       p.Properties.DriftType,
			VoteOrder:       p.VoteOrder,
		})
	}

	values := c.settings.Values()
	for i, entry := range c.settings.Registry().Entries() {
		snap.Settings = append(snap.Settings, SettingSnapshot{
			Name:  entry.Name,
			Value: values[i],
			Label: entry.Label(values[i]),
		})
	}

	if code, ok := c.errs.Pending(); ok {
		snap.ErrorCode = &code
	}
	return snap
}
