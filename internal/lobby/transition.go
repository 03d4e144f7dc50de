package lobby

import (
	"fmt"

	"github.com/Unnamed1242/mkw-sp/internal/logger"
	"github.com/Unnamed1242/mkw-sp/internal/protocol"
)

// transition runs the entry side effect of o.next and commits it. On failure
// the client stays in its current state.
func (c *Client) transition(h Handler, o outcome) error {
	if !o.move || o.next == c.state {
		return nil
	}

	var err error
	switch o.next {
	case StateSetup:
		err = c.enterSetup(h)
	case StateMain:
		err = c.enterMain(h)
	case StateTeamSelect:
		h.OnTeamSelect()
	case StateSelect:
		h.OnSelect()
	}
	if err != nil {
		return fmt.Errorf("entering %s: %w", o.next, err)
	}

	from := c.state
	c.state = o.next
	c.obs.ObserveTransition(from, o.next)
	logger.LogInfo("[room %s] %s -> %s", c.id, from, o.next)
	return nil
}

func (c *Client) localMiis() ([]protocol.Mii, error) {
	miis := make([]protocol.Mii, c.roster.LocalCount())
	for seat := range miis {
		mii, err := c.src.LocalMii(seat)
		if err != nil {
			return nil, fmt.Errorf("%w: local mii %d: %w", ErrInvalidConfig, seat, err)
		}
		miis[seat] = mii
	}
	return miis, nil
}

func (c *Client) enterSetup(h Handler) error {
	miis, err := c.localMiis()
	if err != nil {
		return err
	}
	h.OnSetup()
	c.writeJoin(miis)
	return nil
}

// enterMain adds every local seat to the roster after the remote players that
// were announced during setup.
func (c *Client) enterMain(h Handler) error {
	miis, err := c.localMiis()
	if err != nil {
		return err
	}
	if c.roster.Len()+len(miis) > protocol.MaxPlayers {
		return violationf("%w: %d players present, %d local", ErrRoomFull, c.roster.Len(), len(miis))
	}

	h.OnMain()
	loc := c.src.Location()
	for seat, mii := range miis {
		if err := c.join(h, mii, loc); err != nil {
			return err
		}
		if err := c.roster.SetLocal(seat, c.roster.Len()-1); err != nil {
			return err
		}
	}
	return nil
}
