package lobby

import "github.com/Unnamed1242/mkw-sp/internal/protocol"

// voteState tracks the order in which players finished voting.
type voteState struct {
	order [protocol.MaxPlayers]uint32
	next  uint32
}

// record stores the arrival rank of player id and advances the counter.
func (v *voteState) record(id int) uint32 {
	rank := v.next
	v.order[id] = rank
	v.next++
	return rank
}

func (v *voteState) count() uint32 { return v.next }
