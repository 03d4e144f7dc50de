package lobby

import (
	"time"

	"github.com/Unnamed1242/mkw-sp/internal/protocol"
	"github.com/Unnamed1242/mkw-sp/internal/settings"
)

// Handler reacts to lobby events. Every argument is a copy; callbacks may not
// call back into the Client that invoked them.
type Handler interface {
	OnError(code uint32)
	OnSetup()
	OnMain()
	OnTeamSelect()
	OnSelect()
	OnSettingsChange(values settings.Values)
	OnPlayerJoin(mii protocol.Mii, loc protocol.Location)
	OnPlayerLeave(playerID int)
	OnReceiveComment(playerID int, messageID uint32)
	OnReceiveTeamSelect(playerID int, teamID uint32)
	OnReceivePulse(playerID int)
	OnReceiveInfo(playerID int, course, selectedPlayer, character, vehicle uint32)
}

// NopHandler ignores every callback. Embed it to implement a subset.
type NopHandler struct{}

func (NopHandler) OnError(uint32)                                    {}
func (NopHandler) OnSetup()                                          {}
func (NopHandler) OnMain()                                           {}
func (NopHandler) OnTeamSelect()                                     {}
func (NopHandler) OnSelect()                                         {}
func (NopHandler) OnSettingsChange(settings.Values)                  {}
func (NopHandler) OnPlayerJoin(protocol.Mii, protocol.Location)      {}
func (NopHandler) OnPlayerLeave(int)                                 {}
func (NopHandler) OnReceiveComment(int, uint32)                      {}
func (NopHandler) OnReceiveTeamSelect(int, uint32)                   {}
func (NopHandler) OnReceivePulse(int)                                {}
func (NopHandler) OnReceiveInfo(int, uint32, uint32, uint32, uint32) {}

// LocalSource is the local configuration: Miis per seat, region data and the
// local room settings defaults.
type LocalSource interface {
	settings.Source
	LocalMii(seat int) (protocol.Mii, error)
	Location() protocol.Location
}

// Observer receives instrumentation callbacks from the state machine.
type Observer interface {
	ObserveTick(elapsed time.Duration)
	ObserveEvent(kind protocol.EventKind)
	ObserveTransition(from, to State)
	ObserveViolation()
	ObserveStickyError(code uint32)
	ObservePlayers(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveTick(time.Duration)       {}
func (nopObserver) ObserveEvent(protocol.EventKind) {}
func (nopObserver) ObserveTransition(State, State)  {}
func (nopObserver) ObserveViolation()               {}
func (nopObserver) ObserveStickyError(uint32)       {}
func (nopObserver) ObservePlayers(int)              {}
