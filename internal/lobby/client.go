// Package lobby implements the room lobby protocol: the roster, the sticky
// error sink and the state machine driven once per frame by Tick.
package lobby

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Unnamed1242/mkw-sp/internal/logger"
	"github.com/Unnamed1242/mkw-sp/internal/protocol"
	"github.com/Unnamed1242/mkw-sp/internal/protocol/codec"
	"github.com/Unnamed1242/mkw-sp/internal/settings"
	"github.com/Unnamed1242/mkw-sp/internal/transport"
)

// ClientConfig configures one lobby session.
type ClientConfig struct {
	LocalPlayers int
	ServerAddr   string
	Passcode     uint32
	LoginInfo    *protocol.LoginInfo
	Registry     *settings.Registry
}

// Option customizes a Client.
type Option func(*Client)

// WithObserver attaches instrumentation.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.obs = o
		}
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.id = id
		}
	}
}

// Client is one lobby session. It is not safe for concurrent use; the owner
// calls Tick once per frame and the local request methods between ticks.
type Client struct {
	id  string
	cfg ClientConfig
	tr  transport.Transport
	src LocalSource
	obs Observer

	state    State
	roster   *Roster
	settings *settings.Synchronizer
	votes    voteState
	gamemode uint32
	errs     ErrorSink

	localSettingsChanged bool
	readBuf              []byte
}

// NewClient creates a session in the Connect state.
func NewClient(cfg ClientConfig, tr transport.Transport, src LocalSource, opts ...Option) (*Client, error) {
	if cfg.LocalPlayers < 1 || cfg.LocalPlayers > protocol.MaxLocalPlayers {
		return nil, fmt.Errorf("%w: local players must be 1..%d, got %d",
			ErrInvalidConfig, protocol.MaxLocalPlayers, cfg.LocalPlayers)
	}
	if tr == nil {
		return nil, fmt.Errorf("%w: nil transport", ErrInvalidConfig)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil local source", ErrInvalidConfig)
	}
	if cfg.Registry == nil {
		cfg.Registry = settings.DefaultRegistry()
	}

	c := &Client{
		id:       uuid.New().String(),
		cfg:      cfg,
		tr:       tr,
		src:      src,
		obs:      nopObserver{},
		state:    StateConnect,
		roster:   NewRoster(cfg.LocalPlayers),
		settings: settings.NewSynchronizer(cfg.Registry),
		readBuf:  make([]byte, codec.MaxEventSize),
	}
	for _, opt := range opts {
		opt(c)
	}

	logger.LogInfo("[room %s] session created for %s with %d local players", c.id, cfg.ServerAddr, cfg.LocalPlayers)
	return c, nil
}

// Tick advances the session by one frame. A non-nil error means the session
// must be torn down; violations wrap ErrProtocol and transport failures wrap
// ErrTransport. Once an application error is latched Tick only reports it,
// once, and returns nil.
func (c *Client) Tick(h Handler) error {
	start := time.Now()
	defer func() { c.obs.ObserveTick(time.Since(start)) }()

	if c.errs.Active() {
		c.errs.Drain(h)
		return nil
	}

	if err := c.step(h); err != nil {
		return c.fail(err)
	}
	if err := c.tr.Poll(); err != nil {
		return c.fail(fmt.Errorf("%w: %w", ErrTransport, err))
	}
	if err := c.step(h); err != nil {
		return c.fail(err)
	}
	return nil
}

func (c *Client) step(h Handler) error {
	o, err := c.resolve(h)
	if err != nil {
		return err
	}
	return c.transition(h, o)
}

func (c *Client) fail(err error) error {
	if errors.Is(err, ErrProtocol) {
		c.obs.ObserveViolation()
	}
	logger.LogError("[room %s] tick failed in %s: %v", c.id, c.state, err)
	return err
}

// read pulls at most one event. A nil event with a nil error means none is queued.
func (c *Client) read() (protocol.Event, error) {
	n, err := c.tr.Read(c.readBuf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if n == 0 {
		return nil, nil
	}

	ev, err := codec.DecodeEvent(c.readBuf[:n])
	if err != nil {
		return nil, violation(err)
	}
	c.obs.ObserveEvent(ev.Kind())
	return ev, nil
}

// BeginRace hands control to the race once selection is over.
func (c *Client) BeginRace() error {
	if c.state != StateSelect {
		return fmt.Errorf("%w: cannot begin race from %s", ErrInvalidState, c.state)
	}
	return c.transition(NopHandler{}, moveTo(StateRace))
}

// Close releases the transport.
func (c *Client) Close() error {
	logger.LogInfo("[room %s] session closed in %s", c.id, c.state)
	return c.tr.Close()
}

// State returns the current lobby state.
func (c *Client) State() State { return c.state }

// SessionID identifies this session in logs and snapshots.
func (c *Client) SessionID() string { return c.id }

// ServerAddr returns the room server address.
func (c *Client) ServerAddr() string { return c.cfg.ServerAddr }

// KeyPair returns the transport session keys.
func (c *Client) KeyPair() transport.KeyPair { return c.tr.KeyPair() }

// Gamemode returns the game mode of the last start event.
func (c *Client) Gamemode() uint32 { return c.gamemode }

// Settings returns a copy of the room settings.
func (c *Client) Settings() settings.Values { return c.settings.Values() }

// Registry returns the settings registry of this session.
func (c *Client) Registry() *settings.Registry { return c.settings.Registry() }

// PlayerCount returns the number of players in the room.
func (c *Client) PlayerCount() int { return c.roster.Len() }

// Players returns a copy of the roster.
func (c *Client) Players() []Player { return c.roster.Players() }

// Player returns a copy of player id.
func (c *Client) Player(id int) (Player, bool) { return c.roster.Player(id) }

// IsPlayerLocal reports whether id belongs to a local seat.
func (c *Client) IsPlayerLocal(id int) bool { return c.roster.IsLocal(id) }

// IsPlayerRemote reports whether id is a remote player.
func (c *Client) IsPlayerRemote(id int) bool { return c.roster.IsRemote(id) }

// LocalPlayerID returns the player id of a local seat.
func (c *Client) LocalPlayerID(seat int) (int, bool) { return c.roster.LocalPlayerID(seat) }

// CanSelectTeam reports whether this client may change id's team.
func (c *Client) CanSelectTeam(id int) bool { return c.roster.CanSelectTeam(id) }

// CanAssignTeam reports whether local seat owns player id.
func (c *Client) CanAssignTeam(seat, id int) bool { return c.roster.CanAssignTeam(seat, id) }

// VoteCount returns how many players have finished voting.
func (c *Client) VoteCount() uint32 { return c.votes.count() }

// ErrorCode returns the latched application error.
func (c *Client) ErrorCode() (uint32, bool) { return c.errs.Pending() }
