package lobby

import (
	"fmt"

	"github.com/Unnamed1242/mkw-sp/internal/protocol"
	"github.com/Unnamed1242/mkw-sp/internal/settings"
)

// resolve decides the next state. It consumes at most one event.
func (c *Client) resolve(h Handler) (outcome, error) {
	switch c.state {
	case StateConnect:
		return c.resolveConnect()
	case StateSetup:
		return c.resolveSetup(h)
	case StateMain:
		return c.resolveMain(h)
	case StateTeamSelect:
		return c.resolveTeamSelect(h)
	case StateSelect:
		return c.resolveSelect(h)
	default:
		return stay(), nil
	}
}

func (c *Client) resolveConnect() (outcome, error) {
	if !c.tr.Ready() {
		return stay(), nil
	}
	return moveTo(StateSetup), nil
}

func (c *Client) resolveSetup(h Handler) (outcome, error) {
	ev, err := c.read()
	if err != nil || ev == nil {
		return stay(), err
	}

	switch ev := ev.(type) {
	case protocol.JoinEvent:
		return stay(), c.onPlayerJoin(h, ev)
	case protocol.SettingsEvent:
		// Capacity is checked before any settings are written.
		if c.roster.Len()+c.roster.LocalCount() > protocol.MaxPlayers {
			return stay(), violationf("%w: %d players present, %d local", ErrRoomFull, c.roster.Len(), c.roster.LocalCount())
		}
		if c.roster.Len() == 0 {
			// First client in the room: our defaults become the room settings.
			if err := c.settings.SnapshotLocalDefaults(c.src); err != nil {
				return stay(), fmt.Errorf("%w: %w", ErrInvalidConfig, err)
			}
		} else if err := c.settings.ApplyBulk(ev.Settings); err != nil {
			return stay(), violation(err)
		}
		h.OnSettingsChange(c.settings.Values())
		return moveTo(StateMain), nil
	default:
		return stay(), violationf("unexpected %s event during setup", ev.Kind())
	}
}

func (c *Client) resolveMain(h Handler) (outcome, error) {
	if c.localSettingsChanged {
		if c.roster.IsLocal(0) {
			c.writeSettings()
		}
		c.localSettingsChanged = false
	}

	ev, err := c.read()
	if err != nil || ev == nil {
		return stay(), err
	}

	switch ev := ev.(type) {
	case protocol.JoinEvent:
		return stay(), c.onPlayerJoin(h, ev)
	case protocol.LeaveEvent:
		return stay(), c.onPlayerLeave(h, ev)
	case protocol.CommentEvent:
		return stay(), c.onReceiveComment(h, ev)
	case protocol.SettingsEvent:
		changed, err := c.settings.ApplyBulkDiff(ev.Settings)
		if err != nil {
			return stay(), violation(err)
		}
		if changed {
			h.OnSettingsChange(c.settings.Values())
		}
		return stay(), nil
	case protocol.StartEvent:
		if err := c.onRoomStart(ev); err != nil {
			return stay(), err
		}
		if c.settings.TeamSize() == settings.TeamSizeFFA {
			return moveTo(StateSelect), nil
		}
		return moveTo(StateTeamSelect), nil
	default:
		return stay(), nil
	}
}

func (c *Client) resolveTeamSelect(h Handler) (outcome, error) {
	ev, err := c.read()
	if err != nil || ev == nil {
		return stay(), err
	}

	if ev, ok := ev.(protocol.TeamSelectEvent); ok {
		return stay(), c.onReceiveTeamSelect(h, ev)
	}
	return stay(), nil
}

func (c *Client) resolveSelect(h Handler) (outcome, error) {
	ev, err := c.read()
	if err != nil || ev == nil {
		return stay(), err
	}

	switch ev := ev.(type) {
	case protocol.SelectPulseEvent:
		return stay(), c.onReceivePulse(h, ev)
	case protocol.SelectInfoEvent:
		return stay(), c.onReceiveInfo(h, ev)
	default:
		return stay(), nil
	}
}
