package snapshot

import "errors"

var (
	// ErrCorrupted is returned when a snapshot is truncated, fails its
	// checksum or holds values that are invalid for their column kind.
	ErrCorrupted = errors.New("snapshot corrupted")

	// ErrBadMagic is returned when the input is not a snapshot.
	ErrBadMagic = errors.New("not a snapshot")

	// ErrVersion is returned for snapshots written by an unsupported format
	// version.
	ErrVersion = errors.New("unsupported snapshot version")

	// ErrShapeMismatch is returned when the stored columns do not match the
	// family being decoded into, or the platform that wrote them.
	ErrShapeMismatch = errors.New("snapshot shape mismatch")

	// ErrNotMappable is returned by Map for snapshots that cannot be used in
	// place.
	ErrNotMappable = errors.New("snapshot not mappable")
)
