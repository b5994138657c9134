package unboxed

import (
	"math/bits"
	"reflect"
	"unsafe"
)

// Prim is the set of fixed-size scalar types stored directly in a column.
// Named types (type Celsius float64) are accepted through their underlying
// type.
type Prim interface {
	~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~complex64 | ~complex128
}

// Kind identifies the scalar type of a column. Values are stable; they are
// persisted in snapshot manifests.
type Kind uint8

// Column kinds.
const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindComplex64
	KindComplex128
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindBool:       "bool",
	KindInt:        "int",
	KindInt8:       "int8",
	KindInt16:      "int16",
	KindInt32:      "int32",
	KindInt64:      "int64",
	KindUint:       "uint",
	KindUint8:      "uint8",
	KindUint16:     "uint16",
	KindUint32:     "uint32",
	KindUint64:     "uint64",
	KindFloat32:    "float32",
	KindFloat64:    "float64",
	KindComplex64:  "complex64",
	KindComplex128: "complex128",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

var kindWidths = [...]int{
	KindBool:       1,
	KindInt:        bits.UintSize / 8,
	KindInt8:       1,
	KindInt16:      2,
	KindInt32:      4,
	KindInt64:      8,
	KindUint:       bits.UintSize / 8,
	KindUint8:      1,
	KindUint16:     2,
	KindUint32:     4,
	KindUint64:     8,
	KindFloat32:    4,
	KindFloat64:    8,
	KindComplex64:  8,
	KindComplex128: 16,
}

// Width returns the element width of the kind on this platform, or 0 for an
// invalid kind.
func (k Kind) Width() int {
	if int(k) < len(kindWidths) {
		return kindWidths[k]
	}
	return 0
}

// Valid reports whether k names a column kind.
func (k Kind) Valid() bool {
	return k > KindInvalid && k <= KindComplex128
}

// KindOf returns the column kind of T.
func KindOf[T Prim]() Kind {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Complex64:
		return KindComplex64
	case reflect.Complex128:
		return KindComplex128
	default:
		return KindInvalid
	}
}

// WidthOf returns the size in bytes of one element of T.
func WidthOf[T Prim]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
