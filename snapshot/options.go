package snapshot

import (
	"github.com/hupe1980/unboxed/resource"
)

// DefaultBlockSize is the uncompressed size of one compressed block.
const DefaultBlockSize = 256 * 1024

type options struct {
	compression Compression
	blockSize   int
	rc          *resource.Controller
}

func defaultOptions() options {
	return options{
		compression: CompressionNone,
		blockSize:   DefaultBlockSize,
	}
}

func applyOptions(optFns []Option) options {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// Option configures writing and reading snapshots.
type Option func(*options)

// WithCompression sets the section compression used by Write.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithBlockSize sets the uncompressed block size used by compressed
// sections. Values <= 0 select DefaultBlockSize.
func WithBlockSize(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = DefaultBlockSize
		}
		o.blockSize = n
	}
}

// WithIOController throttles snapshot reads and writes to the controller's IO
// limit.
func WithIOController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}
