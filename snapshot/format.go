package snapshot

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/hupe1980/unboxed"
	"github.com/hupe1980/unboxed/internal/hash"
)

// Version is the format version written by this package.
const Version uint16 = 1

const (
	magic        = "UBXS"
	headerSize   = 12
	trailerSize  = 4
	sectionAlign = 64
)

// ColumnInfo describes one stored column.
type ColumnInfo struct {
	Kind  unboxed.Kind `msgpack:"kind"`
	Width int          `msgpack:"width"`
	// Bytes is the raw size of the column.
	Bytes int64 `msgpack:"bytes"`
	// Stored is the size of the section in the file, excluding alignment
	// padding.
	Stored int64 `msgpack:"stored"`
}

// Manifest describes the content of a snapshot.
type Manifest struct {
	Version     uint16       `msgpack:"-"`
	Length      int64        `msgpack:"length"`
	ByteOrder   string       `msgpack:"byte_order"`
	Compression Compression  `msgpack:"compression"`
	BlockSize   int          `msgpack:"block_size"`
	Columns     []ColumnInfo `msgpack:"columns"`
}

// Columnar is the shape Write persists: a length and the primitive columns
// backing it. Every unboxed.Vector and *Raw satisfy it.
type Columnar interface {
	Len() int
	Columns() []unboxed.Column
}

// Raw is a decoded snapshot whose element type is not known statically.
type Raw struct {
	Manifest Manifest
	columns  []unboxed.Column
	length   int
}

// Len returns the number of elements.
func (r *Raw) Len() int { return r.length }

// Columns returns the decoded columns. The data must not be modified.
func (r *Raw) Columns() []unboxed.Column { return r.columns }

var nativeOrder = func() string {
	x := uint16(1)
	if *(*byte)(unsafe.Pointer(&x)) == 1 { //nolint:gosec // native byte order check
		return "little"
	}
	return "big"
}()

func padding(off int) int {
	return (sectionAlign - off%sectionAlign) % sectionAlign
}

func appendHeader(dst []byte, manifestLen uint32) []byte {
	dst = append(dst, magic...)
	dst = binary.LittleEndian.AppendUint16(dst, Version)
	dst = binary.LittleEndian.AppendUint16(dst, 0)
	return binary.LittleEndian.AppendUint32(dst, manifestLen)
}

// parseHeader validates the fixed header and returns the manifest length.
func parseHeader(h []byte) (int, uint16, error) {
	if len(h) < headerSize {
		return 0, 0, fmt.Errorf("%w: truncated header", ErrCorrupted)
	}
	if string(h[:4]) != magic {
		return 0, 0, ErrBadMagic
	}
	version := binary.LittleEndian.Uint16(h[4:])
	if version != Version {
		return 0, 0, fmt.Errorf("%w: %d", ErrVersion, version)
	}
	return int(binary.LittleEndian.Uint32(h[8:])), version, nil
}

func unmarshalManifest(b []byte, version uint16) (*Manifest, error) {
	var m Manifest
	if err := msgpack.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrCorrupted, err)
	}
	m.Version = version
	return &m, nil
}

// validate checks the manifest against itself and the running platform and
// returns the element count.
func (m *Manifest) validate() (int, error) {
	if m.ByteOrder != nativeOrder {
		return 0, fmt.Errorf("%w: %s-endian snapshot on %s-endian platform", ErrShapeMismatch, m.ByteOrder, nativeOrder)
	}
	if !m.Compression.valid() {
		return 0, fmt.Errorf("%w: unknown compression %d", ErrCorrupted, uint8(m.Compression))
	}
	n, err := safecast.Conv[int](m.Length)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: length %d: %v", ErrCorrupted, m.Length, err)
	}
	for i, c := range m.Columns {
		if !c.Kind.Valid() {
			return 0, fmt.Errorf("%w: column %d has invalid kind %d", ErrCorrupted, i, uint8(c.Kind))
		}
		if c.Width != c.Kind.Width() {
			return 0, fmt.Errorf("%w: column %d: %s is %d bytes wide here, snapshot has %d",
				ErrShapeMismatch, i, c.Kind, c.Kind.Width(), c.Width)
		}
		width := int64(c.Width)
		if c.Stored < 0 || m.Length > math.MaxInt64/width || c.Bytes != m.Length*width {
			return 0, fmt.Errorf("%w: column %d holds %d bytes for %d elements", ErrCorrupted, i, c.Bytes, m.Length)
		}
		if m.Compression == CompressionNone && c.Stored != c.Bytes {
			return 0, fmt.Errorf("%w: column %d stored size %d, raw size %d", ErrCorrupted, i, c.Stored, c.Bytes)
		}
	}
	return n, nil
}

// decode parses a complete snapshot. Uncompressed columns alias data.
func decode(data []byte) (*Raw, error) {
	mlen, version, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < headerSize+trailerSize || mlen > len(data)-headerSize-trailerSize {
		return nil, fmt.Errorf("%w: truncated", ErrCorrupted)
	}

	end := len(data) - trailerSize
	body := data[headerSize:end]
	if want, got := binary.LittleEndian.Uint32(data[end:]), hash.CRC32C(body); want != got {
		return nil, fmt.Errorf("%w: checksum %08x, want %08x", ErrCorrupted, got, want)
	}

	m, err := unmarshalManifest(body[:mlen], version)
	if err != nil {
		return nil, err
	}
	n, err := m.validate()
	if err != nil {
		return nil, err
	}

	raw := &Raw{Manifest: *m, length: n, columns: make([]unboxed.Column, len(m.Columns))}
	off := headerSize + mlen
	for i, c := range m.Columns {
		if m.Compression == CompressionNone {
			off += padding(off)
		}
		stored, err := safecast.Conv[int](c.Stored)
		if err != nil || off > end || stored > end-off {
			return nil, fmt.Errorf("%w: column %d overruns file", ErrCorrupted, i)
		}
		section := data[off : off+stored : off+stored]
		off += stored

		colData := section
		if m.Compression != CompressionNone {
			size, err := safecast.Conv[int](c.Bytes)
			if err != nil {
				return nil, fmt.Errorf("%w: column %d: %v", ErrCorrupted, i, err)
			}
			if colData, err = decompressColumn(section, m.Compression, size); err != nil {
				return nil, fmt.Errorf("column %d: %w", i, err)
			}
		}

		if c.Kind == unboxed.KindBool {
			if err := validateBools(colData); err != nil {
				return nil, fmt.Errorf("column %d: %w", i, err)
			}
		}
		raw.columns[i] = unboxed.Column{Kind: c.Kind, Width: c.Width, Data: colData}
	}
	if off != end {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupted, end-off)
	}
	return raw, nil
}

// validateBools rejects bytes other than 0 and 1: any other value is not a
// valid Go bool.
func validateBools(b []byte) error {
	for i, x := range b {
		if x > 1 {
			return fmt.Errorf("%w: bool %d has byte value %d", ErrCorrupted, i, x)
		}
	}
	return nil
}
