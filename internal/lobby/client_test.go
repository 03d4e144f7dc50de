package lobby

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Unnamed1242/mkw-sp/internal/protocol"
	"github.com/Unnamed1242/mkw-sp/internal/settings"
	"github.com/Unnamed1242/mkw-sp/internal/testutil"
)

type recordingObserver struct {
	ticks       int
	events      []protocol.EventKind
	transitions []string
	violations  int
	sticky      []uint32
	players     int
}

func (o *recordingObserver) ObserveTick(time.Duration)         { o.ticks++ }
func (o *recordingObserver) ObserveEvent(k protocol.EventKind) { o.events = append(o.events, k) }
func (o *recordingObserver) ObserveTransition(from, to State) {
	o.transitions = append(o.transitions, from.String()+"->"+to.String())
}
func (o *recordingObserver) ObserveViolation()              { o.violations++ }
func (o *recordingObserver) ObserveStickyError(code uint32) { o.sticky = append(o.sticky, code) }
func (o *recordingObserver) ObservePlayers(n int)           { o.players = n }

type harness struct {
	c   *Client
	tr  *testutil.FakeTransport
	src *testutil.StaticSource
	h   *testutil.RecordingHandler
	obs *recordingObserver
}

func newHarness(t *testing.T, localPlayers int) *harness {
	t.Helper()

	tr := testutil.NewFakeTransport()
	src := testutil.NewStaticSource(localPlayers)
	obs := &recordingObserver{}
	c, err := NewClient(ClientConfig{
		LocalPlayers: localPlayers,
		ServerAddr:   "room.test:21330",
		Passcode:     4321,
	}, tr, src, WithObserver(obs), WithSessionID("test-session"))
	require.NoError(t, err)

	return &harness{c: c, tr: tr, src: src, h: &testutil.RecordingHandler{}, obs: obs}
}

func (hs *harness) tickUntil(t *testing.T, want State) {
	t.Helper()
	for i := 0; i < 16 && hs.c.State() != want; i++ {
		require.NoError(t, hs.c.Tick(hs.h))
	}
	require.Equal(t, want, hs.c.State())
}

// drain ticks until every queued event has been consumed.
func (hs *harness) drain(t *testing.T) {
	t.Helper()
	for i := 0; i < 16 && len(hs.tr.Inbox) > 0; i++ {
		require.NoError(t, hs.c.Tick(hs.h))
	}
	require.Empty(t, hs.tr.Inbox)
}

func remoteJoin(seed byte) protocol.JoinEvent {
	mii := testutil.TestMii(seed)
	return protocol.JoinEvent{Mii: mii[:], Location: 7, Latitude: 100, Longitude: 200, RegionLineColor: 1}
}

func validSettings() protocol.SettingsEvent {
	return protocol.SettingsEvent{Settings: []uint32{settings.TeamSizeFFA, 0, 3, 1, 2, 0}}
}

// enterMain joins `remote` players during setup and moves to Main.
func (hs *harness) enterMain(t *testing.T, remote int) {
	t.Helper()
	for i := range remote {
		hs.tr.Push(remoteJoin(byte(i + 1)))
	}
	hs.tr.Push(validSettings())
	hs.tickUntil(t, StateMain)
	hs.drain(t)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	t.Parallel()

	src := testutil.NewStaticSource(1)
	tr := testutil.NewFakeTransport()

	for _, n := range []int{0, protocol.MaxLocalPlayers + 1} {
		_, err := NewClient(ClientConfig{LocalPlayers: n}, tr, src)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	}
	_, err := NewClient(ClientConfig{LocalPlayers: 1}, nil, src)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	c, err := NewClient(ClientConfig{LocalPlayers: 1}, tr, src)
	require.NoError(t, err)
	assert.NotEmpty(t, c.SessionID())
	assert.Equal(t, StateConnect, c.State())
}

func TestTick_StaysInConnectUntilReady(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.tr.IsReady = false

	require.NoError(t, hs.c.Tick(hs.h))
	require.NoError(t, hs.c.Tick(hs.h))
	assert.Equal(t, StateConnect, hs.c.State())
	assert.Empty(t, hs.tr.Written)
	assert.Equal(t, 2, hs.tr.Polls)

	hs.tr.IsReady = true
	require.NoError(t, hs.c.Tick(hs.h))
	assert.Equal(t, StateSetup, hs.c.State())
	assert.Equal(t, []string{"setup"}, hs.h.Calls)
}

func TestTick_SetupSendsJoinRequest(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 2)
	hs.src.Defaults = settings.Values{1, 1, 2, 0, 4, 2}

	require.NoError(t, hs.c.Tick(hs.h))
	require.Equal(t, StateSetup, hs.c.State())

	reqs, err := hs.tr.Requests()
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	join, ok := reqs[0].(protocol.JoinRequest)
	require.True(t, ok, "got %T", reqs[0])
	assert.Equal(t, uint32(4321), join.Passcode)
	assert.Equal(t, hs.src.Miis, join.Miis)
	assert.Equal(t, uint32(0x31), join.Location)
	assert.Equal(t, uint32(0x1234), join.Latitude)
	assert.Equal(t, uint32(0x5678), join.Longitude)
	assert.Equal(t, []uint32{1, 1, 2, 0, 4, 2}, join.Settings)
	assert.Nil(t, join.LoginInfo)
}

func TestTick_EmptyRoomUsesLocalDefaults(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.src.Defaults = settings.Values{settings.TeamSize3v3, 1, 7, 2, 4, 2}
	// Out of range on purpose: the payload must not be consulted.
	hs.tr.Push(protocol.SettingsEvent{Settings: []uint32{99, 99}})

	require.NoError(t, hs.c.Tick(hs.h))

	assert.Equal(t, StateMain, hs.c.State(), "connect, setup and main should all resolve in one tick")
	assert.Equal(t, settings.Values{settings.TeamSize3v3, 1, 7, 2, 4, 2}, hs.c.Settings())
	assert.Equal(t, []string{"setup", "settings [2 1 7 2 4 2]", "main", "join"}, hs.h.Calls)
	assert.Equal(t, 1, hs.c.PlayerCount())
	id, ok := hs.c.LocalPlayerID(0)
	require.True(t, ok)
	assert.Equal(t, 0, id)
	assert.Equal(t, []string{"connect->setup", "setup->main"}, hs.obs.transitions)
}

func TestTick_SetupAppliesNetworkSettings(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 2)
	hs.enterMain(t, 3)

	assert.Equal(t, settings.Values{settings.TeamSizeFFA, 0, 3, 1, 2, 0}, hs.c.Settings())
	assert.Equal(t, 5, hs.c.PlayerCount())
	assert.Equal(t, 5, hs.h.Count("join"), "three remote joins then two local joins")
}

func TestTick_SetupRejectsInvalidSettings(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.tr.Push(remoteJoin(1), protocol.SettingsEvent{Settings: []uint32{0, 0, 8, 0, 0, 0}})

	require.NoError(t, hs.c.Tick(hs.h))
	err := hs.c.Tick(hs.h)
	require.ErrorIs(t, err, ErrProtocol)
	assert.ErrorIs(t, err, settings.ErrOutOfRange)
	assert.Equal(t, StateSetup, hs.c.State())
	assert.Equal(t, settings.Values{0, 0, 0, 0, 0, 0}, hs.c.Settings(), "nothing is written on reject")
	assert.Equal(t, 1, hs.obs.violations)
}

func TestTick_SetupRejectsUnexpectedEvents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event protocol.Event
	}{
		{"comment", protocol.CommentEvent{PlayerID: 0, MessageID: 1}},
		{"start", protocol.StartEvent{Gamemode: 0}},
		{"unknown tag", protocol.UnknownEvent{Tag: 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hs := newHarness(t, 1)
			hs.tr.Push(tt.event)
			assert.ErrorIs(t, hs.c.Tick(hs.h), ErrProtocol)
			assert.Equal(t, StateSetup, hs.c.State())
		})
	}
}

func TestTick_JoinValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event protocol.JoinEvent
	}{
		{"short mii", protocol.JoinEvent{Mii: make([]byte, protocol.MiiSize-1)}},
		{"long mii", protocol.JoinEvent{Mii: make([]byte, protocol.MiiSize+1)}},
		{"missing mii", protocol.JoinEvent{}},
		{"latitude", protocol.JoinEvent{Mii: make([]byte, protocol.MiiSize), Latitude: 0x10000}},
		{"longitude", protocol.JoinEvent{Mii: make([]byte, protocol.MiiSize), Longitude: 0x10000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hs := newHarness(t, 1)
			hs.enterMain(t, 0)
			hs.tr.Push(tt.event)

			assert.ErrorIs(t, hs.c.Tick(hs.h), ErrProtocol)
			assert.Equal(t, 1, hs.c.PlayerCount())
		})
	}
}

func TestTick_JoinAtCapacity(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.enterMain(t, protocol.MaxPlayers-1)
	require.Equal(t, protocol.MaxPlayers, hs.c.PlayerCount())
	before := hs.c.Players()

	hs.tr.Push(remoteJoin(0x40))
	err := hs.c.Tick(hs.h)
	require.ErrorIs(t, err, ErrProtocol)
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Equal(t, before, hs.c.Players())
}

func TestTick_EnterMainOverCapacityRollsBack(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 2)
	for i := range protocol.MaxPlayers - 1 {
		hs.tr.Push(remoteJoin(byte(i + 1)))
	}
	hs.tr.Push(validSettings())

	var err error
	for i := 0; i < 16 && err == nil; i++ {
		err = hs.c.Tick(hs.h)
	}
	require.ErrorIs(t, err, ErrProtocol)
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Equal(t, StateSetup, hs.c.State(), "a failed entry must not commit the new state")
	assert.Equal(t, protocol.MaxPlayers-1, hs.c.PlayerCount())
	assert.Zero(t, hs.h.Count("main"))
	assert.Equal(t, settings.Values{0, 0, 0, 0, 0, 0}, hs.c.Settings(), "settings are not applied when the room cannot seat us")
	for _, call := range hs.h.Calls {
		assert.NotContains(t, call, "settings")
	}
}

func TestTick_EmptyRoomInvalidLocalDefaults(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.src.Defaults = settings.Values{0, 0, 8, 0, 0, 0}
	hs.tr.Push(protocol.SettingsEvent{})

	err := hs.c.Tick(hs.h)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, settings.ErrOutOfRange)
	assert.NotErrorIs(t, err, ErrProtocol, "bad local defaults are not the server's fault")
	assert.Equal(t, StateSetup, hs.c.State())
	assert.Zero(t, hs.obs.violations)
}

func TestTick_LeaveShiftsLocalSeats(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 2)
	hs.enterMain(t, 3)

	hs.tr.Push(protocol.LeaveEvent{PlayerID: 1})
	require.NoError(t, hs.c.Tick(hs.h))

	assert.Equal(t, 4, hs.c.PlayerCount())
	for seat, want := range []int{2, 3} {
		got, ok := hs.c.LocalPlayerID(seat)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 1, hs.h.Count("leave 1"))
	assert.Equal(t, 4, hs.obs.players)
}

func TestTick_LeaveRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		player uint32
		target error
	}{
		{"local player", 1, ErrLocalPlayer},
		{"out of range", 2, ErrInvalidPlayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hs := newHarness(t, 1)
			hs.enterMain(t, 1)
			before := hs.c.Players()

			hs.tr.Push(protocol.LeaveEvent{PlayerID: tt.player})
			err := hs.c.Tick(hs.h)
			require.ErrorIs(t, err, ErrProtocol)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, before, hs.c.Players())
			id, _ := hs.c.LocalPlayerID(0)
			assert.Equal(t, 1, id)
		})
	}
}

func TestTick_Comment(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.enterMain(t, 1)

	m := &testutil.MockHandler{}
	m.On("OnReceiveComment", 0, uint32(95)).Once()

	hs.tr.Push(protocol.CommentEvent{PlayerID: 0, MessageID: 95})
	require.NoError(t, hs.c.Tick(m))
	m.AssertExpectations(t)

	hs.tr.Push(protocol.CommentEvent{PlayerID: 0, MessageID: protocol.CommentCount})
	assert.ErrorIs(t, hs.c.Tick(m), ErrProtocol)

	hs.tr.Push(protocol.CommentEvent{PlayerID: 2, MessageID: 1})
	assert.ErrorIs(t, hs.c.Tick(m), ErrProtocol)
	m.AssertNumberOfCalls(t, "OnReceiveComment", 1)
}

func TestTick_MainSettingsDiff(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.enterMain(t, 1)
	require.Len(t, hs.h.Settings, 1)

	hs.tr.Push(validSettings())
	require.NoError(t, hs.c.Tick(hs.h))
	assert.Len(t, hs.h.Settings, 1, "identical settings are not forwarded")

	hs.tr.Push(protocol.SettingsEvent{Settings: []uint32{settings.TeamSize2v2, 1, 3, 1, 2, 0}})
	require.NoError(t, hs.c.Tick(hs.h))
	require.Len(t, hs.h.Settings, 2)
	assert.Equal(t, settings.Values{settings.TeamSize2v2, 1, 3, 1, 2, 0}, hs.h.Settings[1])

	hs.tr.Push(protocol.SettingsEvent{Settings: []uint32{0, 0, 0, 0, 0, 3}})
	assert.ErrorIs(t, hs.c.Tick(hs.h), ErrProtocol)
	assert.Equal(t, settings.Values{settings.TeamSize2v2, 1, 3, 1, 2, 0}, hs.c.Settings())

	hs.tr.Push(protocol.SettingsEvent{Settings: []uint32{0, 0, 0}})
	assert.ErrorIs(t, hs.c.Tick(hs.h), ErrProtocol)
}

func TestTick_MainIgnoresOtherEvents(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.enterMain(t, 1)

	hs.tr.Push(
		protocol.UnknownEvent{Tag: 42},
		protocol.TeamSelectEvent{PlayerID: 0, TeamID: 1},
		protocol.VoteEvent{PlayerID: 0, Course: 3},
	)
	hs.drain(t)
	assert.Equal(t, StateMain, hs.c.State())
}

func TestTick_StartRouting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		teamSize uint32
		gamemode uint32
		want     State
		callback string
	}{
		{"ffa skips team select", settings.TeamSizeFFA, 1, StateSelect, "select"},
		{"teams", settings.TeamSize2v2, 0, StateTeamSelect, "team_select"},
		{"6v6", settings.TeamSize6v6, 2, StateTeamSelect, "team_select"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hs := newHarness(t, 1)
			hs.enterMain(t, 1)
			hs.tr.Push(protocol.SettingsEvent{Settings: []uint32{tt.teamSize, 0, 0, 0, 0, 0}})
			hs.drain(t)

			hs.tr.Push(protocol.StartEvent{Gamemode: tt.gamemode})
			require.NoError(t, hs.c.Tick(hs.h))
			assert.Equal(t, tt.want, hs.c.State())
			assert.Equal(t, tt.gamemode, hs.c.Gamemode())
			assert.Equal(t, 1, hs.h.Count(tt.callback))
		})
	}
}

func TestTick_StartInvalidGamemode(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.enterMain(t, 1)

	hs.tr.Push(protocol.StartEvent{Gamemode: 5})
	assert.ErrorIs(t, hs.c.Tick(hs.h), ErrProtocol)
	assert.Equal(t, StateMain, hs.c.State())
	assert.Zero(t, hs.c.Gamemode())
}

func TestTick_TeamSelect(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.tr.Push(remoteJoin(1), protocol.SettingsEvent{Settings: []uint32{settings.TeamSize2v2, 0, 0, 0, 0, 0}})
	hs.tickUntil(t, StateMain)
	hs.drain(t)
	hs.tr.Push(protocol.StartEvent{Gamemode: 0})
	hs.tickUntil(t, StateTeamSelect)

	hs.tr.Push(
		protocol.TeamSelectEvent{PlayerID: 0, TeamID: 5},
		protocol.CommentEvent{PlayerID: 9, MessageID: 200},
		protocol.UnknownEvent{Tag: 42},
	)
	hs.drain(t)

	assert.Equal(t, StateTeamSelect, hs.c.State())
	assert.Equal(t, 1, hs.h.Count("team 0 5"))
	p, _ := hs.c.Player(0)
	assert.Equal(t, uint32(5), p.TeamID)

	hs.tr.Push(protocol.TeamSelectEvent{PlayerID: 0, TeamID: protocol.TeamCount})
	assert.ErrorIs(t, hs.c.Tick(hs.h), ErrProtocol)

	hs.tr.Push(protocol.TeamSelectEvent{PlayerID: 2, TeamID: 0})
	assert.ErrorIs(t, hs.c.Tick(hs.h), ErrProtocol)
}

func (hs *harness) enterSelect(t *testing.T, remote int) {
	t.Helper()
	hs.enterMain(t, remote)
	hs.tr.Push(protocol.StartEvent{Gamemode: 0})
	hs.tickUntil(t, StateSelect)
}

func TestTick_SelectPulse(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.enterSelect(t, 2)

	hs.tr.Push(
		protocol.SelectPulseEvent{PlayerID: 2},
		protocol.SelectPulseEvent{PlayerID: 0},
		protocol.LeaveEvent{PlayerID: 7},
	)
	hs.drain(t)

	assert.Equal(t, uint32(2), hs.c.VoteCount())
	p2, _ := hs.c.Player(2)
	p0, _ := hs.c.Player(0)
	assert.Equal(t, uint32(0), p2.VoteOrder)
	assert.Equal(t, uint32(1), p0.VoteOrder)
	assert.Equal(t, 1, hs.h.Count("pulse 2"))

	hs.tr.Push(protocol.SelectPulseEvent{PlayerID: 3})
	assert.ErrorIs(t, hs.c.Tick(hs.h), ErrProtocol)
	assert.Equal(t, uint32(2), hs.c.VoteCount())
}

func TestTick_SelectInfo(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.enterSelect(t, 1)

	hs.tr.Push(protocol.SelectInfoEvent{
		Players: []protocol.PlayerProperties{
			{Course: 4, Properties: protocol.Properties{Character: 10, Vehicle: 20, DriftType: 1}},
			{Course: 9, Properties: protocol.Properties{Character: 11, Vehicle: 21}},
		},
		SelectedPlayer: 1,
	})
	require.NoError(t, hs.c.Tick(hs.h))

	assert.Equal(t, 1, hs.h.Count("info 0 4 1 10 20"))
	assert.Equal(t, 1, hs.h.Count("info 1 9 1 11 21"))
	p0, _ := hs.c.Player(0)
	assert.Equal(t, uint32(4), p0.Course)
	assert.Equal(t, protocol.Properties{Character: 10, Vehicle: 20, DriftType: 1}, p0.Properties)
}

func TestTick_SelectInfoRejectedWithoutApplying(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event protocol.SelectInfoEvent
	}{
		{"too many players", protocol.SelectInfoEvent{Players: make([]protocol.PlayerProperties, 3)}},
		{"selected out of range", protocol.SelectInfoEvent{
			Players:        []protocol.PlayerProperties{{Course: 4}},
			SelectedPlayer: 2,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hs := newHarness(t, 1)
			hs.enterSelect(t, 1)
			before := hs.c.Players()

			hs.tr.Push(tt.event)
			assert.ErrorIs(t, hs.c.Tick(hs.h), ErrProtocol)
			assert.Equal(t, before, hs.c.Players())
			assert.Zero(t, hs.h.Count("info 0 4 2 0 0"))
		})
	}
}

func TestBeginRace(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.enterMain(t, 0)
	assert.ErrorIs(t, hs.c.BeginRace(), ErrInvalidState)

	hs.tr.Push(protocol.StartEvent{Gamemode: 0})
	hs.tickUntil(t, StateSelect)
	require.NoError(t, hs.c.BeginRace())
	assert.Equal(t, StateRace, hs.c.State())

	hs.tr.Push(protocol.CommentEvent{PlayerID: 99})
	require.NoError(t, hs.c.Tick(hs.h))
	assert.Len(t, hs.tr.Inbox, 1, "race does not consume lobby events")
}

func TestTick_TransportFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	t.Run("poll", func(t *testing.T) {
		t.Parallel()
		hs := newHarness(t, 1)
		hs.tr.PollErr = boom
		err := hs.c.Tick(hs.h)
		require.ErrorIs(t, err, ErrTransport)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("read", func(t *testing.T) {
		t.Parallel()
		hs := newHarness(t, 1)
		require.NoError(t, hs.c.Tick(hs.h))
		hs.tr.ReadErr = boom
		assert.ErrorIs(t, hs.c.Tick(hs.h), ErrTransport)
	})

	t.Run("malformed event", func(t *testing.T) {
		t.Parallel()
		hs := newHarness(t, 1)
		hs.tr.PushRaw([]byte{0x0a, 0x05, 0x01})
		assert.ErrorIs(t, hs.c.Tick(hs.h), ErrProtocol)
	})
}

func TestTick_WriteFailureIsStickyAndReportedOnce(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.tr.WriteErr = errors.New("send buffer full")

	require.NoError(t, hs.c.Tick(hs.h), "a write failure is not a tick failure")
	assert.Equal(t, StateSetup, hs.c.State())
	code, ok := hs.c.ErrorCode()
	require.True(t, ok)
	assert.Equal(t, protocol.ErrCodeWriteFailed, code)

	// A second error while the first is pending is dropped.
	require.ErrorIs(t, hs.c.SendComment(200), ErrInvalidArgument)
	require.NoError(t, hs.c.SendComment(3))
	hs.c.errs.Record(protocol.ErrCodeEncodeFailed)

	hs.tr.Push(validSettings())
	for range 3 {
		require.NoError(t, hs.c.Tick(hs.h))
	}
	assert.Equal(t, []uint32{protocol.ErrCodeWriteFailed}, hs.h.Errors)
	assert.Equal(t, StateSetup, hs.c.State(), "ticks are no-ops once an error is latched")
	assert.Len(t, hs.tr.Inbox, 1)
	assert.Equal(t, []uint32{protocol.ErrCodeWriteFailed}, hs.obs.sticky)
}

func TestChangeLocalSettings(t *testing.T) {
	t.Parallel()

	t.Run("owner pushes settings", func(t *testing.T) {
		t.Parallel()

		hs := newHarness(t, 1)
		hs.enterMain(t, 0)
		hs.src.Defaults = settings.Values{1, 0, 0, 0, 0, 0}

		hs.c.ChangeLocalSettings()
		require.NoError(t, hs.c.Tick(hs.h))
		require.NoError(t, hs.c.Tick(hs.h))

		reqs, err := hs.tr.Requests()
		require.NoError(t, err)
		require.Len(t, reqs, 2)
		assert.Equal(t, protocol.SettingsRequest{Settings: []uint32{1, 0, 0, 0, 0, 0}}, reqs[1])
	})

	t.Run("non owner only clears the flag", func(t *testing.T) {
		t.Parallel()

		hs := newHarness(t, 1)
		hs.enterMain(t, 1)

		hs.c.ChangeLocalSettings()
		require.NoError(t, hs.c.Tick(hs.h))
		assert.False(t, hs.c.localSettingsChanged)
		assert.Len(t, hs.tr.Written, 1, "only the join request")
	})
}

func TestSendTeamSelect(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.enterMain(t, 1)

	assert.ErrorIs(t, hs.c.SendTeamSelect(0), ErrPermission)
	require.NoError(t, hs.c.SendTeamSelect(1))
	require.NoError(t, hs.c.SendTeamSelect(1))

	reqs, err := hs.tr.Requests()
	require.NoError(t, err)
	require.Len(t, reqs, 3)
	assert.Equal(t, protocol.TeamSelectRequest{PlayerID: 1, TeamID: 0}, reqs[1])
	assert.Equal(t, protocol.TeamSelectRequest{PlayerID: 1, TeamID: 1}, reqs[2])
	assert.True(t, hs.c.CanAssignTeam(0, 1))
}

func TestLocalRequests(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.enterMain(t, 0)

	require.NoError(t, hs.c.SendComment(12))
	require.NoError(t, hs.c.StartRoom(2))
	assert.ErrorIs(t, hs.c.StartRoom(protocol.GamemodeCount), ErrInvalidArgument)
	props := &protocol.Properties{Character: 1, Vehicle: 2, DriftType: 1}
	hs.c.SendVote(7, props)
	props.Character = 99
	hs.c.SendVote(8, nil)

	reqs, err := hs.tr.Requests()
	require.NoError(t, err)
	require.Len(t, reqs, 5)
	assert.Equal(t, protocol.CommentRequest{MessageID: 12}, reqs[1])
	assert.Equal(t, protocol.StartRequest{Gamemode: 2}, reqs[2])
	assert.Equal(t, protocol.VoteRequest{Course: 7, Properties: &protocol.Properties{Character: 1, Vehicle: 2, DriftType: 1}}, reqs[3])
	assert.Equal(t, protocol.VoteRequest{Course: 8}, reqs[4])
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	hs.enterMain(t, 1)

	snap := hs.c.Snapshot()
	assert.Equal(t, "test-session", snap.SessionID)
	assert.Equal(t, "room.test:21330", snap.ServerAddr)
	assert.Equal(t, "main", snap.State)
	require.Len(t, snap.Players, 2)
	assert.False(t, snap.Players[0].Local)
	assert.True(t, snap.Players[1].Local)
	assert.Equal(t, uint16(0x1234), snap.Players[1].Latitude)
	require.Len(t, snap.Settings, settings.DefaultRegistry().Len())
	assert.Equal(t, settings.RoomTeamSize, snap.Settings[0].Name)
	assert.Equal(t, "FFA", snap.Settings[0].Label)
	assert.Nil(t, snap.ErrorCode)
}

func TestTick_MockHandlerSequence(t *testing.T) {
	t.Parallel()

	hs := newHarness(t, 1)
	m := &testutil.MockHandler{}
	m.On("OnSetup").Once()
	m.On("OnSettingsChange", mock.Anything).Once()
	m.On("OnMain").Once()
	m.On("OnPlayerJoin", hs.src.Miis[0], hs.src.Loc).Once()

	hs.tr.Push(validSettings())
	require.NoError(t, hs.c.Tick(m))
	m.AssertExpectations(t)
}
