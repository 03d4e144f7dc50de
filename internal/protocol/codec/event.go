package codec

import (
	"bytes"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/Unnamed1242/mkw-sp/internal/protocol"
)

// RoomEvent oneof tags
const (
	eventTagJoin protowire.Number = iota + 1
	eventTagLeave
	eventTagComment
	eventTagSettings
	eventTagStart
	eventTagTeamSelect
	eventTagSelectPulse
	eventTagSelectInfo
	eventTagVote
)

// DecodeEvent decodes one room event. The result never aliases data.
func DecodeEvent(data []byte) (protocol.Event, error) {
	var ev protocol.Event
	err := eachField(data, func(f field) error {
		body, err := f.message()
		if err != nil {
			return err
		}

		var decoded protocol.Event
		switch f.num {
		case eventTagJoin:
			decoded, err = decodeJoinEvent(body)
		case eventTagLeave:
			decoded, err = decodeLeaveEvent(body)
		case eventTagComment:
			decoded, err = decodeCommentEvent(body)
		case eventTagSettings:
			decoded, err = decodeSettingsEvent(body)
		case eventTagStart:
			decoded, err = decodeStartEvent(body)
		case eventTagTeamSelect:
			decoded, err = decodeTeamSelectEvent(body)
		case eventTagSelectPulse:
			decoded, err = decodeSelectPulseEvent(body)
		case eventTagSelectInfo:
			decoded, err = decodeSelectInfoEvent(body)
		case eventTagVote:
			decoded, err = decodeVoteEvent(body)
		default:
			decoded = protocol.UnknownEvent{Tag: int32(f.num)}
		}
		if err != nil {
			return err
		}
		ev = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, ErrEmpty
	}
	return ev, nil
}

func decodeJoinEvent(b []byte) (protocol.Event, error) {
	var ev protocol.JoinEvent
	err := eachField(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			var mii []byte
			mii, err = f.message()
			ev.Mii = bytes.Clone(mii)
		case 2:
			ev.Location, err = f.uint32()
		case 3:
			ev.Latitude, err = f.uint32()
		case 4:
			ev.Longitude, err = f.uint32()
		case 5:
			ev.RegionLineColor, err = f.uint32()
		}
		return err
	})
	if ev.Mii == nil {
		ev.Mii = []byte{}
	}
	return ev, err
}

func decodeLeaveEvent(b []byte) (protocol.Event, error) {
	var ev protocol.LeaveEvent
	err := eachField(b, func(f field) error {
		var err error
		if f.num == 1 {
			ev.PlayerID, err = f.uint32()
		}
		return err
	})
	return ev, err
}

func decodeCommentEvent(b []byte) (protocol.Event, error) {
	var ev protocol.CommentEvent
	err := eachField(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			ev.PlayerID, err = f.uint32()
		case 2:
			ev.MessageID, err = f.uint32()
		}
		return err
	})
	return ev, err
}

func decodeSettingsEvent(b []byte) (protocol.Event, error) {
	ev := protocol.SettingsEvent{Settings: []uint32{}}
	err := eachField(b, func(f field) error {
		var err error
		if f.num == 1 {
			ev.Settings, err = f.appendUint32s(ev.Settings)
		}
		return err
	})
	return ev, err
}

func decodeStartEvent(b []byte) (protocol.Event, error) {
	var ev protocol.StartEvent
	err := eachField(b, func(f field) error {
		var err error
		if f.num == 1 {
			ev.Gamemode, err = f.uint32()
		}
		return err
	})
	return ev, err
}

func decodeTeamSelectEvent(b []byte) (protocol.Event, error) {
	var ev protocol.TeamSelectEvent
	err := eachField(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			ev.PlayerID, err = f.uint32()
		case 2:
			ev.TeamID, err = f.uint32()
		}
		return err
	})
	return ev, err
}

func decodeSelectPulseEvent(b []byte) (protocol.Event, error) {
	var ev protocol.SelectPulseEvent
	err := eachField(b, func(f field) error {
		var err error
		if f.num == 1 {
			ev.PlayerID, err = f.uint32()
		}
		return err
	})
	return ev, err
}

func decodeSelectInfoEvent(b []byte) (protocol.Event, error) {
	var ev protocol.SelectInfoEvent
	err := eachField(b, func(f field) error {
		switch f.num {
		case 1:
			body, err := f.message()
			if err != nil {
				return err
			}
			p, err := decodePlayerProperties(body)
			if err != nil {
				return err
			}
			ev.Players = append(ev.Players, p)
		case 2:
			v, err := f.uint32()
			if err != nil {
				return err
			}
			ev.SelectedPlayer = v
		}
		return nil
	})
	return ev, err
}

func decodePlayerProperties(b []byte) (protocol.PlayerProperties, error) {
	var p protocol.PlayerProperties
	err := eachField(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			p.Course, err = f.uint32()
		case 2:
			p.Properties.Character, err = f.uint32()
		case 3:
			p.Properties.Vehicle, err = f.uint32()
		case 4:
			p.Properties.DriftType, err = f.uint32()
		}
		return err
	})
	return p, err
}

func decodeVoteEvent(b []byte) (protocol.Event, error) {
	var ev protocol.VoteEvent
	err := eachField(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			ev.PlayerID, err = f.uint32()
		case 2:
			ev.Course, err = f.uint32()
		}
		return err
	})
	return ev, err
}

// EncodeEvent encodes a room event. Room servers and tests use it; the
// client itself only decodes events.
func EncodeEvent(ev protocol.Event) ([]byte, error) {
	var body []byte
	var tag protowire.Number

	switch e := ev.(type) {
	case protocol.JoinEvent:
		tag = eventTagJoin
		body = appendBytes(body, 1, e.Mii)
		body = appendUint32(body, 2, e.Location)
		body = appendUint32(body, 3, e.Latitude)
		body = appendUint32(body, 4, e.Longitude)
		body = appendUint32(body, 5, e.RegionLineColor)
	case protocol.LeaveEvent:
		tag = eventTagLeave
		body = appendUint32(body, 1, e.PlayerID)
	case protocol.CommentEvent:
		tag = eventTagComment
		body = appendUint32(body, 1, e.PlayerID)
		body = appendUint32(body, 2, e.MessageID)
	case protocol.SettingsEvent:
		tag = eventTagSettings
		body = appendPacked(body, 1, e.Settings)
	case protocol.StartEvent:
		tag = eventTagStart
		body = appendUint32(body, 1, e.Gamemode)
	case protocol.TeamSelectEvent:
		tag = eventTagTeamSelect
		body = appendUint32(body, 1, e.PlayerID)
		body = appendUint32(body, 2, e.TeamID)
	case protocol.SelectPulseEvent:
		tag = eventTagSelectPulse
		body = appendUint32(body, 1, e.PlayerID)
	case protocol.SelectInfoEvent:
		tag = eventTagSelectInfo
		for _, p := range e.Players {
			var sub []byte
			sub = appendUint32(sub, 1, p.Course)
			sub = appendUint32(sub, 2, p.Properties.Character)
			sub = appendUint32(sub, 3, p.Properties.Vehicle)
			sub = appendUint32(sub, 4, p.Properties.DriftType)
			body = appendBytes(body, 1, sub)
		}
		body = appendUint32(body, 2, e.SelectedPlayer)
	case protocol.VoteEvent:
		tag = eventTagVote
		body = appendUint32(body, 1, e.PlayerID)
		body = appendUint32(body, 2, e.Course)
	case protocol.UnknownEvent:
		tag = protowire.Number(e.Tag)
	default:
		return nil, fmt.Errorf("codec: cannot encode event %T", ev)
	}

	out := appendBytes(nil, tag, body)
	if len(out) > MaxEventSize {
		return nil, ErrTooLarge
	}
	return out, nil
}
