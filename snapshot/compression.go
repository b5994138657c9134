package snapshot

import (
	"encoding/binary"
	"fmt"
	"strings"
	"sync"

	"fortio.org/safecast"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how column sections are stored.
type Compression uint8

const (
	// CompressionNone stores raw, aligned column bytes. Only uncompressed
	// snapshots can be mapped.
	CompressionNone Compression = 0
	// CompressionLZ4 stores LZ4 blocks (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD stores ZSTD blocks (better ratio).
	CompressionZSTD Compression = 2
)

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

func (c Compression) valid() bool {
	return c <= CompressionZSTD
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}

// ZSTD encoder/decoder pools for efficiency
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

// Block format: [raw size u32][stored size u32][data]. A stored size of 0
// means the block holds raw bytes.
const blockHeaderSize = 8

// compressColumn splits data into blocks and compresses each.
func compressColumn(data []byte, c Compression, blockSize int) ([]byte, error) {
	out := make([]byte, 0, len(data)/2+blockHeaderSize)
	for start := 0; start < len(data); start += blockSize {
		block, err := compressBlock(out, data[start:min(start+blockSize, len(data))], c)
		if err != nil {
			return nil, err
		}
		out = block
	}
	return out, nil
}

// compressBlock appends one block to dst. Blocks that do not shrink below 90%
// are stored raw.
func compressBlock(dst, data []byte, c Compression) ([]byte, error) {
	var compressed []byte
	switch c {
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
		return nil, fmt.Errorf("compress: %s", c)
	}

	raw, err := safecast.Conv[uint32](len(data))
	if err != nil {
		return nil, err
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		dst = binary.LittleEndian.AppendUint32(dst, raw)
		dst = binary.LittleEndian.AppendUint32(dst, 0)
		return append(dst, data...), nil
	}

	stored, err := safecast.Conv[uint32](len(compressed))
	if err != nil {
		return nil, err
	}
	dst = binary.LittleEndian.AppendUint32(dst, raw)
	dst = binary.LittleEndian.AppendUint32(dst, stored)
	return append(dst, compressed...), nil
}

// decompressColumn decodes the blocks of one section into size raw bytes.
func decompressColumn(section []byte, c Compression, size int) ([]byte, error) {
	out := make([]byte, size)
	pos := 0
	for len(section) > 0 {
		if len(section) < blockHeaderSize {
			return nil, fmt.Errorf("%w: truncated block header", ErrCorrupted)
		}
		raw := int(binary.LittleEndian.Uint32(section[0:]))
		stored := int(binary.LittleEndian.Uint32(section[4:]))
		section = section[blockHeaderSize:]

		if raw > size-pos {
			return nil, fmt.Errorf("%w: block overruns column", ErrCorrupted)
		}
		dst := out[pos : pos+raw : pos+raw]

		if stored == 0 {
			if len(section) < raw {
				return nil, fmt.Errorf("%w: truncated raw block", ErrCorrupted)
			}
			copy(dst, section[:raw])
			section = section[raw:]
			pos += raw
			continue
		}

		if len(section) < stored {
			return nil, fmt.Errorf("%w: truncated block", ErrCorrupted)
		}
		if err := decompressBlock(dst, section[:stored], c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		section = section[stored:]
		pos += raw
	}
	if pos != size {
		return nil, fmt.Errorf("%w: column holds %d of %d bytes", ErrCorrupted, pos, size)
	}
	return out, nil
}

func decompressBlock(dst, src []byte, c Compression) error {
	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(src, dst)
		if err != nil {
			return err
		}
		if n != len(dst) {
			return fmt.Errorf("decompressed size mismatch")
		}
		return nil

	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		decoded, err := dec.DecodeAll(src, dst[:0])
		if err != nil {
			return err
		}
		if len(decoded) != len(dst) {
			return fmt.Errorf("decompressed size mismatch")
		}
		return nil

	default:
		return fmt.Errorf("decompress: %s", c)
	}
}
