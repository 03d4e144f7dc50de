// Package ui is the terminal front end of a room session.
package ui

import (
	"context"
	"time"

	"github.com/Unnamed1242/mkw-sp/internal/lobby"
	"github.com/Unnamed1242/mkw-sp/internal/protocol"
	"github.com/Unnamed1242/mkw-sp/internal/settings"
	"github.com/Unnamed1242/mkw-sp/internal/sound"
	"github.com/Unnamed1242/mkw-sp/internal/storage"
)

// Room is the session driven by the model. *lobby.Client implements it.
type Room interface {
	Tick(h lobby.Handler) error
	State() lobby.State
	Snapshot() *lobby.RoomSnapshot
	SendComment(messageID uint32) error
	StartRoom(gamemode uint32) error
	SendTeamSelect(playerID int) error
	SendVote(course uint32, props *protocol.Properties)
	ChangeLocalSettings()
	LocalPlayerID(seat int) (int, bool)
	BeginRace() error
	Close() error
}

// SettingsEditor changes the local room settings defaults.
type SettingsEditor interface {
	Key() string
	SetRoomSetting(name, raw string) error
	RoomSettings() settings.Values
}

// Store persists local settings and the session record.
type Store interface {
	SaveRoomSettings(ctx context.Context, key string, values settings.Values) error
	SaveSession(ctx context.Context, key string, session *storage.SessionData) error
}

// Publisher receives a snapshot after every tick.
type Publisher interface {
	Publish(snap *lobby.RoomSnapshot)
}

// Player plays sound cues.
type Player interface {
	Play(cue sound.Cue)
}

// Options wires the optional collaborators of the room model.
type Options struct {
	TickInterval time.Duration
	Settings     SettingsEditor
	Store        Store
	Publisher    Publisher
	Sound        Player
}

const (
	defaultTickInterval = time.Second / 60
	storeTimeout        = 2 * time.Second
	maxLogLines         = 8
)

var _ Room = (*lobby.Client)(nil)
