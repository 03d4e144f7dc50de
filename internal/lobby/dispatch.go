package lobby

import (
	"math"

	"github.com/Unnamed1242/mkw-sp/internal/logger"
	"github.com/Unnamed1242/mkw-sp/internal/protocol"
)

// playerID checks a wire player id against the roster.
func (c *Client) playerID(raw uint32) (int, error) {
	if raw >= uint32(c.roster.Len()) {
		return -1, violationf("player %d out of range (%d players)", raw, c.roster.Len())
	}
	return int(raw), nil
}

func (c *Client) onPlayerJoin(h Handler, ev protocol.JoinEvent) error {
	if len(ev.Mii) != protocol.MiiSize {
		return violationf("mii is %d bytes, want %d", len(ev.Mii), protocol.MiiSize)
	}
	if ev.Latitude > math.MaxUint16 || ev.Longitude > math.MaxUint16 {
		return violationf("coordinates %d,%d out of range", ev.Latitude, ev.Longitude)
	}

	var mii protocol.Mii
	copy(mii[:], ev.Mii)
	loc := protocol.Location{
		Location:        ev.Location,
		Latitude:        uint16(ev.Latitude),
		Longitude:       uint16(ev.Longitude),
		RegionLineColor: ev.RegionLineColor,
	}
	return c.join(h, mii, loc)
}

func (c *Client) join(h Handler, mii protocol.Mii, loc protocol.Location) error {
	id, err := c.roster.Join(mii, loc)
	if err != nil {
		return violation(err)
	}
	c.obs.ObservePlayers(c.roster.Len())
	h.OnPlayerJoin(mii, loc)
	logger.LogInfo("[room %s] player %d joined (%d/%d)", c.id, id, c.roster.Len(), protocol.MaxPlayers)
	return nil
}

func (c *Client) onPlayerLeave(h Handler, ev protocol.LeaveEvent) error {
	id := int(ev.PlayerID)
	if err := c.roster.Leave(id); err != nil {
		return violation(err)
	}
	c.obs.ObservePlayers(c.roster.Len())
	h.OnPlayerLeave(id)
	logger.LogInfo("[room %s] player %d left (%d/%d)", c.id, id, c.roster.Len(), protocol.MaxPlayers)
	return nil
}

func (c *Client) onReceiveComment(h Handler, ev protocol.CommentEvent) error {
	id, err := c.playerID(ev.PlayerID)
	if err != nil {
		return err
	}
	if ev.MessageID >= protocol.CommentCount {
		return violationf("comment %d out of range", ev.MessageID)
	}
	h.OnReceiveComment(id, ev.MessageID)
	return nil
}

func (c *Client) onRoomStart(ev protocol.StartEvent) error {
	if ev.Gamemode >= protocol.GamemodeCount {
		return violationf("gamemode %d out of range", ev.Gamemode)
	}
	c.gamemode = ev.Gamemode
	logger.LogInfo("[room %s] room started with gamemode %d", c.id, ev.Gamemode)
	return nil
}

func (c *Client) onReceiveTeamSelect(h Handler, ev protocol.TeamSelectEvent) error {
	id, err := c.playerID(ev.PlayerID)
	if err != nil {
		return err
	}
	if ev.TeamID >= protocol.TeamCount {
		return violationf("team %d out of range", ev.TeamID)
	}
	if err := c.roster.SetTeam(id, ev.TeamID); err != nil {
		return err
	}
	h.OnReceiveTeamSelect(id, ev.TeamID)
	return nil
}

func (c *Client) onReceivePulse(h Handler, ev protocol.SelectPulseEvent) error {
	id, err := c.playerID(ev.PlayerID)
	if err != nil {
		return err
	}
	if err := c.roster.SetVoteOrder(id, c.votes.record(id)); err != nil {
		return err
	}
	h.OnReceivePulse(id)
	return nil
}

// onReceiveInfo validates the whole event before applying any of it.
func (c *Client) onReceiveInfo(h Handler, ev protocol.SelectInfoEvent) error {
	if len(ev.Players) > c.roster.Len() {
		return violationf("selection for %d players, room has %d", len(ev.Players), c.roster.Len())
	}
	if _, err := c.playerID(ev.SelectedPlayer); err != nil {
		return err
	}

	for i, p := range ev.Players {
		if err := c.roster.SetSelection(i, p.Course, p.Properties); err != nil {
			return err
		}
		h.OnReceiveInfo(i, p.Course, ev.SelectedPlayer, p.Properties.Character, p.Properties.Vehicle)
	}
	return nil
}
