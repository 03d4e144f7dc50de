package codec

import (
	"bytes"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/Unnamed1242/mkw-sp/internal/protocol"
)

// RoomRequest oneof tags
const (
	requestTagJoin protowire.Number = iota + 1
	requestTagComment
	requestTagStart
	requestTagSettings
	requestTagTeamSelect
	requestTagVote
)

// EncodeRequest encodes a room request into a freshly allocated slice.
func EncodeRequest(req protocol.Request) ([]byte, error) {
	out := getScratch()
	defer putScratch(out)

	b, err := AppendRequest(*out, req)
	if err != nil {
		return nil, err
	}
	*out = b
	return bytes.Clone(b), nil
}

// AppendRequest appends the encoding of req to dst.
func AppendRequest(dst []byte, req protocol.Request) ([]byte, error) {
	scratch := getScratch()
	defer putScratch(scratch)

	body := *scratch
	var tag protowire.Number

	switch r := req.(type) {
	case protocol.JoinRequest:
		tag = requestTagJoin
		for i := range r.Miis {
			body = appendBytes(body, 1, r.Miis[i][:])
		}
		body = appendUint32(body, 2, r.Location)
		body = appendUint32(body, 3, r.Latitude)
		body = appendUint32(body, 4, r.Longitude)
		body = appendUint32(body, 5, r.RegionLineColor)
		body = appendPacked(body, 6, r.Settings)
		if r.LoginInfo != nil {
			var sub []byte
			sub = appendUint32(sub, 1, r.LoginInfo.ClientID)
			if len(r.LoginInfo.Token) > 0 {
				sub = appendBytes(sub, 2, r.LoginInfo.Token)
			}
			body = appendBytes(body, 7, sub)
		}
		body = appendUint32(body, 8, r.Passcode)
	case protocol.CommentRequest:
		tag = requestTagComment
		body = appendUint32(body, 1, r.MessageID)
	case protocol.StartRequest:
		tag = requestTagStart
		body = appendUint32(body, 1, r.Gamemode)
	case protocol.SettingsRequest:
		tag = requestTagSettings
		body = appendPacked(body, 1, r.Settings)
	case protocol.TeamSelectRequest:
		tag = requestTagTeamSelect
		body = appendUint32(body, 1, r.PlayerID)
		body = appendUint32(body, 2, r.TeamID)
	case protocol.VoteRequest:
		tag = requestTagVote
		body = appendUint32(body, 1, r.Course)
		if r.Properties != nil {
			var sub []byte
			sub = appendUint32(sub, 1, r.Properties.Character)
			sub = appendUint32(sub, 2, r.Properties.Vehicle)
			sub = appendUint32(sub, 3, r.Properties.DriftType)
			body = appendBytes(body, 2, sub)
		}
	default:
		return nil, fmt.Errorf("codec: cannot encode request %T", req)
	}

	*scratch = body

	start := len(dst)
	dst = appendBytes(dst, tag, body)
	if len(dst)-start > MaxRequestSize {
		return nil, ErrTooLarge
	}
	return dst, nil
}

// DecodeRequest decodes one room request. Room servers and tests use it to
// inspect what the client wrote.
func DecodeRequest(data []byte) (protocol.Request, error) {
	var req protocol.Request
	err := eachField(data, func(f field) error {
		body, err := f.message()
		if err != nil {
			return err
		}

		var decoded protocol.Request
		switch f.num {
		case requestTagJoin:
			decoded, err = decodeJoinRequest(body)
		case requestTagComment:
			var r protocol.CommentRequest
			r.MessageID, err = singleUint32(body)
			decoded = r
		case requestTagStart:
			var r protocol.StartRequest
			r.Gamemode, err = singleUint32(body)
			decoded = r
		case requestTagSettings:
			r := protocol.SettingsRequest{Settings: []uint32{}}
			err = eachField(body, func(f field) error {
				var err error
				if f.num == 1 {
					r.Settings, err = f.appendUint32s(r.Settings)
				}
				return err
			})
			decoded = r
		case requestTagTeamSelect:
			decoded, err = decodeTeamSelectRequest(body)
		case requestTagVote:
			decoded, err = decodeVoteRequest(body)
		default:
			return fmt.Errorf("%w: tag %d", ErrUnknownRequest, f.num)
		}
		if err != nil {
			return err
		}
		req = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrEmpty
	}
	return req, nil
}

func singleUint32(b []byte) (uint32, error) {
	var v uint32
	err := eachField(b, func(f field) error {
		var err error
		if f.num == 1 {
			v, err = f.uint32()
		}
		return err
	})
	return v, err
}

func decodeJoinRequest(b []byte) (protocol.Request, error) {
	var r protocol.JoinRequest
	err := eachField(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			var raw []byte
			if raw, err = f.message(); err != nil {
				return err
			}
			if len(raw) != protocol.MiiSize {
				return fmt.Errorf("%w: mii has %d bytes", ErrMalformed, len(raw))
			}
			var mii protocol.Mii
			copy(mii[:], raw)
			r.Miis = append(r.Miis, mii)
		case 2:
			r.Location, err = f.uint32()
		case 3:
			r.Latitude, err = f.uint32()
		case 4:
			r.Longitude, err = f.uint32()
		case 5:
			r.RegionLineColor, err = f.uint32()
		case 6:
			r.Settings, err = f.appendUint32s(r.Settings)
		case 7:
			var sub []byte
			if sub, err = f.message(); err != nil {
				return err
			}
			info := &protocol.LoginInfo{}
			err = eachField(sub, func(f field) error {
				var err error
				switch f.num {
				case 1:
					info.ClientID, err = f.uint32()
				case 2:
					var token []byte
					token, err = f.message()
					info.Token = bytes.Clone(token)
				}
				return err
			})
			r.LoginInfo = info
		case 8:
			r.Passcode, err = f.uint32()
		}
		return err
	})
	return r, err
}

func decodeTeamSelectRequest(b []byte) (protocol.Request, error) {
	var r protocol.TeamSelectRequest
	err := eachField(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			r.PlayerID, err = f.uint32()
		case 2:
			r.TeamID, err = f.uint32()
		}
		return err
	})
	return r, err
}

func decodeVoteRequest(b []byte) (protocol.Request, error) {
	var r protocol.VoteRequest
	err := eachField(b, func(f field) error {
		switch f.num {
		case 1:
			v, err := f.uint32()
			if err != nil {
				return err
			}
			r.Course = v
		case 2:
			sub, err := f.message()
			if err != nil {
				return err
			}
			props := &protocol.Properties{}
			err = eachField(sub, func(f field) error {
				var err error
				switch f.num {
				case 1:
					props.Character, err = f.uint32()
				case 2:
					props.Vehicle, err = f.uint32()
				case 3:
					props.DriftType, err = f.uint32()
				}
				return err
			})
			if err != nil {
				return err
			}
			r.Properties = props
		}
		return nil
	})
	return r, err
}
