package lobby

import (
	"fmt"

	"github.com/Unnamed1242/mkw-sp/internal/logger"
	"github.com/Unnamed1242/mkw-sp/internal/protocol"
	"github.com/Unnamed1242/mkw-sp/internal/protocol/codec"
)

// SendComment sends a preset chat message.
func (c *Client) SendComment(messageID uint32) error {
	if messageID >= protocol.CommentCount {
		return fmt.Errorf("%w: comment %d", ErrInvalidArgument, messageID)
	}
	c.write(protocol.CommentRequest{MessageID: messageID})
	return nil
}

// StartRoom asks the room to start with gamemode.
func (c *Client) StartRoom(gamemode uint32) error {
	if gamemode >= protocol.GamemodeCount {
		return fmt.Errorf("%w: gamemode %d", ErrInvalidArgument, gamemode)
	}
	c.write(protocol.StartRequest{Gamemode: gamemode})
	return nil
}

// ChangeLocalSettings marks the local settings as changed. They are pushed on
// the next Main tick if this client owns player 0.
func (c *Client) ChangeLocalSettings() {
	c.localSettingsChanged = true
}

// SendTeamSelect cycles a local player's team and sends it.
func (c *Client) SendTeamSelect(playerID int) error {
	if !c.roster.CanSelectTeam(playerID) {
		return fmt.Errorf("%w: player %d is not local", ErrPermission, playerID)
	}
	team, err := c.roster.CycleTeam(playerID)
	if err != nil {
		return err
	}
	c.write(protocol.TeamSelectRequest{PlayerID: uint32(playerID), TeamID: team})
	return nil
}

// SendVote submits a course vote, optionally with a selection triple.
func (c *Client) SendVote(course uint32, props *protocol.Properties) {
	req := protocol.VoteRequest{Course: course}
	if props != nil {
		p := *props
		req.Properties = &p
	}
	c.write(req)
}

func (c *Client) writeJoin(miis []protocol.Mii) {
	loc := c.src.Location()
	c.write(protocol.JoinRequest{
		Passcode:        c.cfg.Passcode,
		LoginInfo:       c.cfg.LoginInfo,
		Miis:            miis,
		Location:        loc.Location,
		Latitude:        uint32(loc.Latitude),
		Longitude:       uint32(loc.Longitude),
		RegionLineColor: loc.RegionLineColor,
		Settings:        c.src.RoomSettings(),
	})
	c.localSettingsChanged = false
}

func (c *Client) writeSettings() {
	c.write(protocol.SettingsRequest{Settings: c.src.RoomSettings()})
}

// write encodes and sends req. Failures are latched in the error sink.
func (c *Client) write(req protocol.Request) {
	buf, err := codec.EncodeRequest(req)
	if err != nil {
		c.recordError(protocol.ErrCodeEncodeFailed, req, err)
		return
	}
	if err := c.tr.Write(buf); err != nil {
		c.recordError(protocol.ErrCodeWriteFailed, req, err)
	}
}

func (c *Client) recordError(code uint32, req protocol.Request, cause error) {
	logger.LogError("[room %s] %s request: %v: %v", c.id, req.Kind(), protocol.NewRoomError(code), cause)
	if c.errs.Record(code) {
		c.obs.ObserveStickyError(code)
	}
}
