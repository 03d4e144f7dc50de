package lobby

import (
	"fmt"
	"slices"

	"github.com/Unnamed1242/mkw-sp/internal/protocol"
)

// Player is one seat in the room. Its id is its position in the roster.
type Player struct {
	Mii        protocol.Mii
	Location   protocol.Location
	TeamID     uint32
	Course     uint32
	Properties protocol.Properties
	VoteOrder  uint32
}

// Roster is the ordered, dense list of players plus the local seat mapping.
type Roster struct {
	players []Player
	local   []int // seat -> player id, -1 until the seat joins
}

// NewRoster creates an empty roster with localCount local seats.
func NewRoster(localCount int) *Roster {
	local := make([]int, localCount)
	for i := range local {
		local[i] = -1
	}
	return &Roster{
		players: make([]Player, 0, protocol.MaxPlayers),
		local:   local,
	}
}

// Len returns the number of players in the room.
func (r *Roster) Len() int { return len(r.players) }

// LocalCount returns the number of local seats.
func (r *Roster) LocalCount() int { return len(r.local) }

// Player returns a copy of player id.
func (r *Roster) Player(id int) (Player, bool) {
	if !r.valid(id) {
		return Player{}, false
	}
	return r.players[id], true
}

// Players returns a copy of every player in id order.
func (r *Roster) Players() []Player { return slices.Clone(r.players) }

// Join appends a player and returns its id.
func (r *Roster) Join(mii protocol.Mii, loc protocol.Location) (int, error) {
	if len(r.players) >= protocol.MaxPlayers {
		return -1, ErrRoomFull
	}
	r.players = append(r.players, Player{
		Mii:      mii,
		Location: loc,
		TeamID:   protocol.UnassignedTeam,
		Course:   protocol.NoCourse,
	})
	return len(r.players) - 1, nil
}

// Leave removes a remote player. Higher ids and local seat mappings above id
// shift down by one.
func (r *Roster) Leave(id int) error {
	if !r.valid(id) {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, id)
	}
	if r.IsLocal(id) {
		return fmt.Errorf("%w: %d", ErrLocalPlayer, id)
	}

	r.players = slices.Delete(r.players, id, id+1)
	for seat, pid := range r.local {
		if pid > id {
			r.local[seat] = pid - 1
		}
	}
	return nil
}

// IsLocal reports whether id is mapped to a local seat.
func (r *Roster) IsLocal(id int) bool {
	return id >= 0 && slices.Contains(r.local, id)
}

// IsRemote reports whether id is a player that is not local.
func (r *Roster) IsRemote(id int) bool {
	return r.valid(id) && !r.IsLocal(id)
}

// LocalPlayerID returns the player id of a local seat.
func (r *Roster) LocalPlayerID(seat int) (int, bool) {
	if seat < 0 || seat >= len(r.local) || r.local[seat] < 0 {
		return -1, false
	}
	return r.local[seat], true
}

// SetLocal maps a local seat to a player id.
func (r *Roster) SetLocal(seat, id int) error {
	if seat < 0 || seat >= len(r.local) {
		return fmt.Errorf("%w: seat %d", ErrInvalidArgument, seat)
	}
	if !r.valid(id) {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, id)
	}
	r.local[seat] = id
	return nil
}

// CanSelectTeam reports whether this client may change id's team.
func (r *Roster) CanSelectTeam(id int) bool { return r.IsLocal(id) }

// CanAssignTeam reports whether a local seat owns player id.
func (r *Roster) CanAssignTeam(seat, id int) bool {
	pid, ok := r.LocalPlayerID(seat)
	return ok && pid == id
}

// CycleTeam moves player id to the next team slot and returns it.
// An unassigned player wraps to team 0.
func (r *Roster) CycleTeam(id int) (uint32, error) {
	if !r.valid(id) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPlayer, id)
	}
	p := &r.players[id]
	p.TeamID = (p.TeamID + 1) % protocol.TeamCount
	return p.TeamID, nil
}

// SetTeam records the team the room assigned to player id.
func (r *Roster) SetTeam(id int, team uint32) error {
	if !r.valid(id) {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, id)
	}
	r.players[id].TeamID = team
	return nil
}

// SetSelection records player id's course and selection triple.
func (r *Roster) SetSelection(id int, course uint32, props protocol.Properties) error {
	if !r.valid(id) {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, id)
	}
	r.players[id].Course = course
	r.players[id].Properties = props
	return nil
}

// SetVoteOrder records the order in which player id finished voting.
func (r *Roster) SetVoteOrder(id int, rank uint32) error {
	if !r.valid(id) {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, id)
	}
	r.players[id].VoteOrder = rank
	return nil
}

func (r *Roster) valid(id int) bool {
	return id >= 0 && id < len(r.players)
}
