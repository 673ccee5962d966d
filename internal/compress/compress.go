// Package compress frames cached shard values with an optional compression codec.
//
// Frame format: [Codec uint8][UncompressedSize uint32][CRC32C uint32][Payload...]
// The checksum covers the uncompressed value. The codec byte is CodecNone
// when compression did not pay off.
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/dictload/internal/conv"
	"github.com/hupe1980/dictload/internal/hash"
)

// Codec identifies the compression algorithm of a frame.
type Codec uint8

const (
	// CodecNone stores the payload as-is.
	CodecNone Codec = 0
	// CodecLZ4 uses LZ4 block compression (fast).
	CodecLZ4 Codec = 1
	// CodecZSTD uses ZSTD (better ratio).
	CodecZSTD Codec = 2
)

const headerSize = 9

var (
	// ErrCorrupt is returned when a frame cannot be decoded.
	ErrCorrupt = errors.New("compress: corrupt frame")
	// ErrTooLarge is returned for values that do not fit the frame header.
	ErrTooLarge = errors.New("compress: value too large")
	// ErrChecksum is returned when a decoded value does not match its
	// checksum. It matches ErrCorrupt.
	ErrChecksum = fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecLZ4:
		return "lz4"
	case CodecZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

// ParseCodec parses a codec name as produced by Codec.String.
func ParseCodec(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return CodecNone, nil
	case "lz4":
		return CodecLZ4, nil
	case "zstd":
		return CodecZSTD, nil
	default:
		return CodecNone, fmt.Errorf("compress: unknown codec %q", name)
	}
}

// ZSTD encoder/decoder pools
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Encode frames data with the given codec.
// If compression does not save at least 10%, the frame is stored uncompressed.
func Encode(codec Codec, data []byte) ([]byte, error) {
	size, err := conv.IntToUint32(len(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTooLarge, err)
	}

	var payload []byte
	switch codec {
	case CodecLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		// n == 0 means incompressible
		payload = buf[:n]
	case CodecZSTD:
		enc := getZstdEncoder()
		payload = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	case CodecNone:
	default:
		return nil, fmt.Errorf("compress: unknown codec %d", codec)
	}

	if codec == CodecNone || len(payload) == 0 || float64(len(payload)) > float64(len(data))*0.9 {
		codec = CodecNone
		payload = data
	}

	out := make([]byte, headerSize+len(payload))
	out[0] = byte(codec)
	binary.LittleEndian.PutUint32(out[1:], size)
	binary.LittleEndian.PutUint32(out[5:], hash.CRC32C(data))
	copy(out[headerSize:], payload)
	return out, nil
}

// Decode reverses Encode and verifies the checksum. The result never
// aliases frame.
func Decode(frame []byte) ([]byte, error) {
	if len(frame) < headerSize {
		return nil, ErrCorrupt
	}

	out, err := decodePayload(Codec(frame[0]), binary.LittleEndian.Uint32(frame[1:]), frame[headerSize:])
	if err != nil {
		return nil, err
	}
	if hash.CRC32C(out) != binary.LittleEndian.Uint32(frame[5:]) {
		return nil, ErrChecksum
	}
	return out, nil
}

func decodePayload(codec Codec, size uint32, payload []byte) ([]byte, error) {
	switch codec {
	case CodecNone:
		if uint32(len(payload)) != size {
			return nil, ErrCorrupt
		}
		out := make([]byte, size)
		copy(out, payload)
		return out, nil

	case CodecLZ4:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != size {
			return nil, ErrCorrupt
		}
		return out, nil

	case CodecZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(payload, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(out)) != size {
			return nil, ErrCorrupt
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: unknown codec %d", ErrCorrupt, codec)
	}
}
