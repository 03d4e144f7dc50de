package lobby

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocol wraps every malformed or out-of-bounds room event.
	ErrProtocol = errors.New("lobby: protocol violation")
	// ErrTransport wraps every transport failure.
	ErrTransport = errors.New("lobby: transport failure")

	ErrRoomFull        = errors.New("room is full")
	ErrInvalidPlayer   = errors.New("invalid player id")
	ErrLocalPlayer     = errors.New("player is local")
	ErrInvalidArgument = errors.New("lobby: invalid argument")
	ErrPermission      = errors.New("lobby: permission denied")
	ErrInvalidState    = errors.New("lobby: invalid state")
	ErrInvalidConfig   = errors.New("lobby: invalid config")
)

func violation(err error) error {
	return fmt.Errorf("%w: %w", ErrProtocol, err)
}

func violationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrProtocol}, args...)...)
}
