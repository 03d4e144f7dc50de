// Package profile is the local configuration source of a room session: the
// Miis of the local seats, the console's region data and the room settings
// this client proposes when it creates a room.
package profile

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"

	"github.com/Unnamed1242/mkw-sp/internal/config"
	"github.com/Unnamed1242/mkw-sp/internal/protocol"
	"github.com/Unnamed1242/mkw-sp/internal/settings"
)

var ErrMii = errors.New("profile: invalid mii")

// Profile implements lobby.LocalSource.
type Profile struct {
	key      string
	miis     []protocol.Mii
	location protocol.Location
	registry *settings.Registry
	settings settings.Values
}

// FromConfig builds the profile of localPlayers seats.
func FromConfig(cfg config.ProfileConfig, localPlayers int, registry *settings.Registry) (*Profile, error) {
	if registry == nil {
		registry = settings.DefaultRegistry()
	}

	p := &Profile{
		key: cfg.Key,
		location: protocol.Location{
			Location:        cfg.Location,
			Latitude:        cfg.Latitude,
			Longitude:       cfg.Longitude,
			RegionLineColor: cfg.RegionLineColor,
		},
		registry: registry,
		settings: make(settings.Values, registry.Len()),
	}

	miis, err := decodeMiis(cfg.Miis, localPlayers)
	if err != nil {
		return nil, err
	}
	p.miis = miis

	// Sorted so the first reported error does not depend on map order.
	names := make([]string, 0, len(cfg.Settings))
	for name := range cfg.Settings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		i, v, err := registry.Parse(name, cfg.Settings[name])
		if err != nil {
			return nil, fmt.Errorf("profile settings: %w", err)
		}
		p.settings[i] = v
	}
	return p, nil
}

func decodeMiis(encoded []string, localPlayers int) ([]protocol.Mii, error) {
	miis := make([]protocol.Mii, localPlayers)
	if len(encoded) == 0 {
		for seat := range miis {
			miis[seat] = DefaultMii(seat)
		}
		return miis, nil
	}
	if len(encoded) < localPlayers {
		return nil, fmt.Errorf("%w: %d miis for %d local players", ErrMii, len(encoded), localPlayers)
	}

	for seat := range miis {
		raw, err := base64.StdEncoding.DecodeString(encoded[seat])
		if err != nil {
			return nil, fmt.Errorf("%w: seat %d: %w", ErrMii, seat, err)
		}
		if len(raw) != protocol.MiiSize {
			return nil, fmt.Errorf("%w: seat %d is %d bytes, want %d", ErrMii, seat, len(raw), protocol.MiiSize)
		}
		copy(miis[seat][:], raw)
	}
	return miis, nil
}

// DefaultMii is the placeholder Mii of a seat with none configured.
func DefaultMii(seat int) protocol.Mii {
	var m protocol.Mii
	m[0] = 0x80
	m[1] = byte(seat)
	copy(m[2:], "Player")
	m[2+len("Player")] = '1' + byte(seat)
	return m
}

// Key identifies the profile in persistent storage.
func (p *Profile) Key() string { return p.key }

// LocalMii returns the Mii of a local seat.
func (p *Profile) LocalMii(seat int) (protocol.Mii, error) {
	if seat < 0 || seat >= len(p.miis) {
		return protocol.Mii{}, fmt.Errorf("%w: no seat %d", ErrMii, seat)
	}
	return p.miis[seat], nil
}

// Location returns the region data announced for every local seat.
func (p *Profile) Location() protocol.Location { return p.location }

// RoomSettings returns a copy of the local room settings defaults.
func (p *Profile) RoomSettings() settings.Values { return p.settings.Clone() }

// SetRoomSettings replaces the local defaults. Invalid values are rejected whole.
func (p *Profile) SetRoomSettings(values settings.Values) error {
	if err := p.registry.Validate(values); err != nil {
		return err
	}
	p.settings = values.Clone()
	return nil
}

// SetRoomSetting changes one named setting from a label or number.
func (p *Profile) SetRoomSetting(name, raw string) error {
	i, v, err := p.registry.Parse(name, raw)
	if err != nil {
		return err
	}
	p.settings[i] = v
	return nil
}
