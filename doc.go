// Package unboxed provides unboxed, contiguous vectors for Go.
//
// Elements are stored flat in typed columns rather than as individual heap
// objects. A Family is the storage definition for an element type: primitive
// types get one aligned column each, pairs are split into one column per field
// (struct-of-arrays), and any other type can be stored through a lossless
// encoding (Iso) into a type that already has a family.
//
// # Quick Start
//
//	f := unboxed.Of[float64]()
//	mv, _ := f.New(3)
//	_ = mv.Write(0, 1.5)
//	v, _ := mv.Freeze() // mv is invalidated, v shares its storage
//	x, _ := v.Index(0)
//
// # Derived Representations
//
// A user type is stored through an Iso into a representation type:
//
//	type Complex struct{ Re, Im float64 }
//
//	complexes := unboxed.Adapt(
//	    unboxed.PairOf[float64, float64](unboxed.Of[float64](), unboxed.Of[float64]()),
//	    unboxed.Iso[Complex, unboxed.Pair[float64, float64]]{
//	        To:   func(c Complex) unboxed.Pair[float64, float64] { return unboxed.MakePair(c.Re, c.Im) },
//	        From: func(p unboxed.Pair[float64, float64]) Complex { return Complex{p.First, p.Second} },
//	    },
//	)
//
// The adapted family adds no storage and no failure modes: every operation
// delegates to the representation.
//
// # Ownership
//
// An MVector is exclusively owned. Slice returns views that share its
// storage. Grow and Freeze transfer ownership: the receiver and every view of
// it report ErrInvalidated afterwards. A Vector is immutable and safe for
// concurrent readers. Thaw always copies.
//
// # Resource Management
//
// Families accept a resource.Controller (WithController) that charges every
// allocation against a memory budget. Allocations that do not fit fail with an
// *AllocationError instead of panicking.
//
// # Persistence
//
// Package snapshot writes frozen vectors to a checksummed, optionally
// compressed file format and reads them back, memory-mapped when possible.
// Package blobstore moves snapshots between local disk, memory, S3 and MinIO.
package unboxed
