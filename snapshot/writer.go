package snapshot

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/hupe1980/unboxed"
	"github.com/hupe1980/unboxed/internal/hash"
	"github.com/hupe1980/unboxed/resource"
)

var zeros [sectionAlign]byte

// Write encodes v to w.
func Write(ctx context.Context, w io.Writer, v Columnar, optFns ...Option) error {
	opts := applyOptions(optFns)
	if !opts.compression.valid() {
		return fmt.Errorf("write snapshot: unknown compression %d", uint8(opts.compression))
	}

	n := v.Len()
	cols := v.Columns()
	m := Manifest{
		Version:     Version,
		Length:      int64(n),
		ByteOrder:   nativeOrder,
		Compression: opts.compression,
		BlockSize:   opts.blockSize,
		Columns:     make([]ColumnInfo, len(cols)),
	}

	sections := make([][]byte, len(cols))
	for i, c := range cols {
		if c.Width != c.Kind.Width() || len(c.Data) != n*c.Width {
			return fmt.Errorf("write snapshot: column %d (%s) has %d bytes for %d elements", i, c.Kind, len(c.Data), n)
		}
		sections[i] = c.Data
		if opts.compression != CompressionNone {
			compressed, err := compressColumn(c.Data, opts.compression, opts.blockSize)
			if err != nil {
				return fmt.Errorf("write snapshot: column %d: %w", i, err)
			}
			sections[i] = compressed
		}
		m.Columns[i] = ColumnInfo{
			Kind:   c.Kind,
			Width:  c.Width,
			Bytes:  int64(len(c.Data)),
			Stored: int64(len(sections[i])),
		}
	}

	manifest, err := msgpack.Marshal(&m)
	if err != nil {
		return fmt.Errorf("write snapshot: manifest: %w", err)
	}
	mlen, err := safecast.Conv[uint32](len(manifest))
	if err != nil {
		return fmt.Errorf("write snapshot: manifest: %w", err)
	}

	if opts.rc != nil {
		w = resource.NewRateLimitedWriter(ctx, w, opts.rc)
	}
	bw := bufio.NewWriterSize(w, 64*1024)

	if _, err := bw.Write(appendHeader(nil, mlen)); err != nil {
		return err
	}

	crc := hash.NewCRC32C()
	body := io.MultiWriter(bw, crc)
	if _, err := body.Write(manifest); err != nil {
		return err
	}

	off := headerSize + len(manifest)
	for _, s := range sections {
		if err := ctx.Err(); err != nil {
			return err
		}
		if opts.compression == CompressionNone {
			pad := padding(off)
			if _, err := body.Write(zeros[:pad]); err != nil {
				return err
			}
			off += pad
		}
		if _, err := body.Write(s); err != nil {
			return err
		}
		off += len(s)
	}

	if _, err := bw.Write(binary.LittleEndian.AppendUint32(nil, crc.Sum32())); err != nil {
		return err
	}
	return bw.Flush()
}

// EncodeRaw writes a decoded snapshot, possibly with different options.
func EncodeRaw(ctx context.Context, w io.Writer, raw *Raw, optFns ...Option) error {
	return Write(ctx, w, raw, optFns...)
}

var _ Columnar = unboxed.Vector[int](nil)
