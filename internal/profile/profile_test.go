package profile

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unnamed1242/mkw-sp/internal/config"
	"github.com/Unnamed1242/mkw-sp/internal/protocol"
	"github.com/Unnamed1242/mkw-sp/internal/settings"
)

func encodedMii(seed byte) string {
	raw := make([]byte, protocol.MiiSize)
	for i := range raw {
		raw[i] = seed
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.ProfileConfig{
		Key:             "couch",
		Miis:            []string{encodedMii(1), encodedMii(2)},
		Location:        49,
		Latitude:        0x1234,
		Longitude:       0x5678,
		RegionLineColor: 3,
		Settings: map[string]string{
			settings.RoomTeamSize:  "3v3",
			settings.RoomRaceCount: "12",
			settings.RoomClass:     "Mirror",
		},
	}

	p, err := FromConfig(cfg, 2, nil)
	require.NoError(t, err)

	assert.Equal(t, "couch", p.Key())
	mii, err := p.LocalMii(1)
	require.NoError(t, err)
	assert.Equal(t, byte(2), mii[0])
	_, err = p.LocalMii(2)
	assert.ErrorIs(t, err, ErrMii)

	assert.Equal(t, protocol.Location{Location: 49, Latitude: 0x1234, Longitude: 0x5678, RegionLineColor: 3}, p.Location())
	assert.Equal(t, settings.Values{settings.TeamSize3v3, 0, 2, 0, 4, 0}, p.RoomSettings())
}

func TestFromConfig_DefaultMiis(t *testing.T) {
	t.Parallel()

	p, err := FromConfig(config.ProfileConfig{}, 3, nil)
	require.NoError(t, err)

	seen := map[protocol.Mii]bool{}
	for seat := range 3 {
		mii, err := p.LocalMii(seat)
		require.NoError(t, err)
		assert.Equal(t, DefaultMii(seat), mii)
		seen[mii] = true
	}
	assert.Len(t, seen, 3, "placeholder miis must differ per seat")
	assert.Equal(t, make(settings.Values, settings.DefaultRegistry().Len()), p.RoomSettings())
}

func TestFromConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    config.ProfileConfig
		target error
	}{
		{"bad base64", config.ProfileConfig{Miis: []string{"!!!"}}, ErrMii},
		{"short mii", config.ProfileConfig{Miis: []string{base64.StdEncoding.EncodeToString([]byte("short"))}}, ErrMii},
		{"unknown setting", config.ProfileConfig{Settings: map[string]string{"RoomBananas": "1"}}, settings.ErrUnknownSetting},
		{"out of range", config.ProfileConfig{Settings: map[string]string{settings.RoomVehicles: "3"}}, settings.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := FromConfig(tt.cfg, 1, nil)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := FromConfig(config.ProfileConfig{Miis: []string{encodedMii(1)}}, 2, nil)
	assert.ErrorIs(t, err, ErrMii, "fewer miis than seats")
}

func TestProfile_SetRoomSettings(t *testing.T) {
	t.Parallel()

	p, err := FromConfig(config.ProfileConfig{}, 1, nil)
	require.NoError(t, err)

	require.NoError(t, p.SetRoomSettings(settings.Values{1, 1, 1, 1, 1, 1}))
	assert.Error(t, p.SetRoomSettings(settings.Values{1, 1, 1, 1, 1, 9}))
	assert.Equal(t, settings.Values{1, 1, 1, 1, 1, 1}, p.RoomSettings(), "rejected values leave defaults untouched")

	require.NoError(t, p.SetRoomSetting(settings.RoomCourseSelection, "Vote"))
	assert.Equal(t, uint32(2), p.RoomSettings()[3])
	assert.ErrorIs(t, p.SetRoomSetting("Nope", "1"), settings.ErrUnknownSetting)

	got := p.RoomSettings()
	got[0] = 4
	assert.Equal(t, uint32(1), p.RoomSettings()[0], "RoomSettings returns a copy")
}
