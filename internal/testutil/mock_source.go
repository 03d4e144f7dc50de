//go:build !production

package testutil

import (
	"fmt"

	"github.com/Unnamed1242/mkw-sp/internal/protocol"
	"github.com/Unnamed1242/mkw-sp/internal/settings"
)

// StaticSource 固定内容的本地配置源，实现 lobby.LocalSource
type StaticSource struct {
	Miis     []protocol.Mii
	Loc      protocol.Location
	Defaults settings.Values
}

// NewStaticSource returns a source with n distinct Miis and all-zero defaults
// for the default registry.
func NewStaticSource(n int) *StaticSource {
	miis := make([]protocol.Mii, n)
	for i := range miis {
		miis[i] = TestMii(byte(0x80 + i))
	}
	return &StaticSource{
		Miis:     miis,
		Loc:      protocol.Location{Location: 0x31, Latitude: 0x1234, Longitude: 0x5678, RegionLineColor: 3},
		Defaults: make(settings.Values, settings.DefaultRegistry().Len()),
	}
}

func (s *StaticSource) RoomSettings() settings.Values { return s.Defaults.Clone() }

func (s *StaticSource) LocalMii(seat int) (protocol.Mii, error) {
	if seat < 0 || seat >= len(s.Miis) {
		return protocol.Mii{}, fmt.Errorf("no mii for seat %d", seat)
	}
	return s.Miis[seat], nil
}

func (s *StaticSource) Location() protocol.Location { return s.Loc }

// TestMii returns a Mii filled with seed.
func TestMii(seed byte) protocol.Mii {
	var m protocol.Mii
	for i := range m {
		m[i] = seed
	}
	return m
}
