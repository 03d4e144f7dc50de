// Package codec encodes room requests and events with the protobuf wire format.
//
// A top-level message holds exactly one length-delimited field; its field
// number is the variant tag. Sub-message fields are numbered in declaration
// order starting at 1. Repeated integers are accepted both packed and unpacked.
package codec

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Buffer bounds for one message on the wire.
const (
	MaxEventSize   = 1024
	MaxRequestSize = 1024
)

var (
	// ErrMalformed is returned when bytes are not valid protobuf wire data.
	ErrMalformed = errors.New("codec: malformed message")
	// ErrEmpty is returned for a top-level message without any variant.
	ErrEmpty = errors.New("codec: empty message")
	// ErrTooLarge is returned when an encoded request exceeds MaxRequestSize.
	ErrTooLarge = errors.New("codec: message too large")
	// ErrUnknownRequest is returned when decoding an unrecognized request tag.
	ErrUnknownRequest = errors.New("codec: unknown request")
)

type field struct {
	num   protowire.Number
	typ   protowire.Type
	v     uint64
	bytes []byte
}

// eachField walks b and calls fn for every varint or length-delimited field.
// Fields of other wire types are skipped.
func eachField(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
			}
			f.v = v
			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
			}
			f.bytes = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (f field) uint32() (uint32, error) {
	if f.typ != protowire.VarintType {
		return 0, fmt.Errorf("%w: field %d is not a varint", ErrMalformed, f.num)
	}
	if f.v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: field %d overflows uint32", ErrMalformed, f.num)
	}
	return uint32(f.v), nil
}

func (f field) message() ([]byte, error) {
	if f.typ != protowire.BytesType {
		return nil, fmt.Errorf("%w: field %d is not length-delimited", ErrMalformed, f.num)
	}
	return f.bytes, nil
}

// appendUint32s decodes one occurrence of a repeated uint32 field.
func (f field) appendUint32s(dst []uint32) ([]uint32, error) {
	if f.typ == protowire.VarintType {
		v, err := f.uint32()
		if err != nil {
			return nil, err
		}
		return append(dst, v), nil
	}

	packed, err := f.message()
	if err != nil {
		return nil, err
	}
	for len(packed) > 0 {
		v, n := protowire.ConsumeVarint(packed)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
		}
		if v > math.MaxUint32 {
			return nil, fmt.Errorf("%w: field %d overflows uint32", ErrMalformed, f.num)
		}
		dst = append(dst, uint32(v))
		packed = packed[n:]
	}
	return dst, nil
}

func appendUint32(b []byte, num protowire.Number, v uint32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendPacked(b []byte, num protowire.Number, vs []uint32) []byte {
	if len(vs) == 0 {
		return b
	}
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, uint64(v))
	}
	return appendBytes(b, num, packed)
}
