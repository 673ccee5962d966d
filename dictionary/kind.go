package dictionary

import (
	"encoding/binary"
	"fmt"
)

// Kind is the element type of a shard.
type Kind uint8

const (
	KindUint8 Kind = iota
	KindInt16
	KindInt32
	KindUint32
)

// Width returns the element size in bytes.
func (k Kind) Width() int {
	switch k {
	case KindUint8:
		return 1
	case KindInt16:
		return 2
	case KindInt32, KindUint32:
		return 4
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case KindUint8:
		return "uint8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// DecodeError reports raw bytes that cannot be viewed as an array of Kind.
type DecodeError struct {
	Kind   Kind
	Length int
}

func (e *DecodeError) Error() string {
	if e.Kind.Width() == 0 {
		return fmt.Sprintf("decode: unknown kind %s", e.Kind)
	}
	return fmt.Sprintf("decode: %d bytes is not a multiple of %s width %d", e.Length, e.Kind, e.Kind.Width())
}

// Decode converts raw into a freshly allocated slice of the given kind:
// []uint8, []int16, []int32 or []uint32.
func Decode(kind Kind, raw []byte) (any, error) {
	switch kind {
	case KindUint8:
		return DecodeUint8(raw), nil
	case KindInt16:
		return DecodeInt16(raw)
	case KindInt32:
		return DecodeInt32(raw)
	case KindUint32:
		return DecodeUint32(raw)
	default:
		return nil, &DecodeError{Kind: kind, Length: len(raw)}
	}
}

// DecodeUint8 returns a copy of raw.
func DecodeUint8(raw []byte) []uint8 {
	out := make([]uint8, len(raw))
	copy(out, raw)
	return out
}

// DecodeInt16 decodes little-endian int16 values.
func DecodeInt16(raw []byte) ([]int16, error) {
	if err := checkLength(KindInt16, raw); err != nil {
		return nil, err
	}
	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return out, nil
}

// DecodeInt32 decodes little-endian int32 values.
func DecodeInt32(raw []byte) ([]int32, error) {
	if err := checkLength(KindInt32, raw); err != nil {
		return nil, err
	}
	out := make([]int32, len(raw)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out, nil
}

// DecodeUint32 decodes little-endian uint32 values.
func DecodeUint32(raw []byte) ([]uint32, error) {
	if err := checkLength(KindUint32, raw); err != nil {
		return nil, err
	}
	out := make([]uint32, len(raw)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return out, nil
}

func checkLength(kind Kind, raw []byte) error {
	if len(raw)%kind.Width() != 0 {
		return &DecodeError{Kind: kind, Length: len(raw)}
	}
	return nil
}
