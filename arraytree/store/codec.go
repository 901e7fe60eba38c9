package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the snapshot block codec.
type Compression uint8

const (
	// CompressionNone stores slots raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

// String returns the codec name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression maps a codec name to its Compression value.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	}
	return 0, fmt.Errorf("unknown compression %q", s)
}

var (
	ErrBlockTooSmall = errors.New("block too small")
	ErrSizeMismatch  = errors.New("decompressed size mismatch")
)

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

// BlockHeaderSize is the size of the [uncompressed u32][compressed u32] prefix.
// A compressed size of 0 means the payload is stored raw.
const BlockHeaderSize = 8

// CompressBlock encodes data with the given codec and prefixes the block header.
// Data that does not shrink below 90% is stored raw.
func CompressBlock(data []byte, c Compression) ([]byte, error) {
	var compressed []byte
	switch c {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("unknown compression %d", c)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, BlockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		copy(out[BlockHeaderSize:], data)
		return out, nil
	}
	out := make([]byte, BlockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[BlockHeaderSize:], compressed)
	return out, nil
}

// DecompressBlock reverses CompressBlock.
func DecompressBlock(block []byte, c Compression) ([]byte, error) {
	if len(block) < BlockHeaderSize {
		return nil, ErrBlockTooSmall
	}
	rawSize := binary.LittleEndian.Uint32(block[0:])
	compSize := binary.LittleEndian.Uint32(block[4:])
	if compSize == 0 {
		if uint64(len(block)) < BlockHeaderSize+uint64(rawSize) {
			return nil, ErrBlockTooSmall
		}
		return block[BlockHeaderSize : BlockHeaderSize+rawSize], nil
	}
	if uint64(len(block)) < BlockHeaderSize+uint64(compSize) {
		return nil, ErrBlockTooSmall
	}
	payload := block[BlockHeaderSize : BlockHeaderSize+compSize]
	out := make([]byte, rawSize)

	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != rawSize {
			return nil, ErrSizeMismatch
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		decoded, err := dec.DecodeAll(payload, out[:0])
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != rawSize {
			return nil, ErrSizeMismatch
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("compressed block with codec %s", c)
	}
}

// EncodeSlots appends slots to dst as little-endian int32 values.
func EncodeSlots(dst []byte, slots []int32) []byte {
	for _, v := range slots {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(v))
	}
	return dst
}

// DecodeSlots decodes little-endian int32 values from src into dst.
// It returns the number of slots written.
func DecodeSlots(dst []int32, src []byte) int {
	n := min(len(dst), len(src)/SlotBytes)
	for i := 0; i < n; i++ {
		dst[i] = int32(binary.LittleEndian.Uint32(src[i*SlotBytes:]))
	}
	return n
}
