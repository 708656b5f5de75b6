package chainset

import (
	"math/bits"
	"unsafe"
)

// HashFunc hashes the value behind ptr with the given seed.
// It matches the shape of the hash functions used by Go's built-in map.
type HashFunc func(ptr unsafe.Pointer, seed uintptr) uintptr

// EqualFunc reports whether the values behind a and b are equal.
type EqualFunc func(a, b unsafe.Pointer) bool

// defaultHasher resolves the hash and equality functions for T, using
// identity fast paths for integer kinds whose natural distribution needs
// no extra mixing, and the built-in hasher for everything else.
func defaultHasher[T comparable]() (keyHash HashFunc, keyEqual EqualFunc) {
	keyHash, keyEqual = builtInHasher[T]()

	switch any(*new(T)).(type) {
	case uint, int, uintptr:
		return func(ptr unsafe.Pointer, seed uintptr) uintptr {
			return *(*uintptr)(ptr)
		}, keyEqual

	case uint64, int64:
		if bits.UintSize == 32 {
			return func(ptr unsafe.Pointer, seed uintptr) uintptr {
				v := *(*uint64)(ptr)
				return uintptr(v) ^ uintptr(v>>32)
			}, keyEqual
		}

		return func(ptr unsafe.Pointer, seed uintptr) uintptr {
			return uintptr(*(*uint64)(ptr))
		}, keyEqual

	case uint32, int32:
		return func(ptr unsafe.Pointer, seed uintptr) uintptr {
			return uintptr(*(*uint32)(ptr))
		}, keyEqual

	case uint16, int16:
		return func(ptr unsafe.Pointer, seed uintptr) uintptr {
			return uintptr(*(*uint16)(ptr))
		}, keyEqual

	case uint8, int8:
		return func(ptr unsafe.Pointer, seed uintptr) uintptr {
			return uintptr(*(*uint8)(ptr))
		}, keyEqual

	default:
		return keyHash, keyEqual
	}
}

// GetBuiltInHasher returns Go's built-in hash function for the specified
// type. This is the same hash function that the native map uses internally,
// so it is guaranteed to be consistent with == for T.
//
// Usage:
//
//	hash := GetBuiltInHasher[string]()
//	s := NewWithHasher[string](nil, strings.EqualFold,
//		WithKeyHasherUnsafe(hash))
func GetBuiltInHasher[T comparable]() HashFunc {
	keyHash, _ := builtInHasher[T]()
	return keyHash
}

// builtInHasher obtains the built-in hash and equality functions for T
// from the runtime's map type descriptor.
//
// Notes:
//   - This implementation relies on Go's internal type representation
//   - It should be verified for compatibility with each Go version upgrade
func builtInHasher[T comparable]() (HashFunc, EqualFunc) {
	var m map[T]struct{}
	mapType := rtTypeOf(m).MapType()
	return mapType.Hasher, mapType.Key.Equal
}

type rtFlag uint8
type rtKind uint8
type rtNameOff int32

// rtTypeOff is the offset to a type from moduledata.types. See resolveTypeOff in runtime.
type rtTypeOff int32

type rtType struct {
	Size_       uintptr
	PtrBytes    uintptr // number of (prefix) bytes in the type that can contain pointers
	Hash        uint32  // hash of type; avoids computation in hash tables
	TFlag       rtFlag  // extra type information flags
	Align_      uint8   // alignment of variable with this type
	FieldAlign_ uint8   // alignment of struct field with this type
	Kind_       rtKind  // enumeration for C
	// function for comparing objects of this type
	// (ptr to object A, ptr to object B) -> ==?
	Equal func(unsafe.Pointer, unsafe.Pointer) bool
	// GCData stores the GC type data for the garbage collector.
	GCData    *byte
	Str       rtNameOff // string form
	PtrToThis rtTypeOff // type for pointer to this type, may be zero
}

func (t *rtType) MapType() *rtMapType {
	return (*rtMapType)(unsafe.Pointer(t))
}

type rtMapType struct {
	rtType
	Key   *rtType
	Elem  *rtType
	Group *rtType // internal type representing a slot group
	// function for hashing keys (ptr to key, seed) -> hash
	Hasher func(unsafe.Pointer, uintptr) uintptr
}

func rtTypeOf(a any) *rtType {
	eface := *(*rtEface)(unsafe.Pointer(&a))
	// Types are either static (for compiler-created types) or
	// heap-allocated but always reachable (for reflection-created
	// types, held in the central map). So there is no need to
	// escape types. noescape here helps avoid unnecessary escape
	// of a.
	return (*rtType)(noescape(unsafe.Pointer(eface.Type)))
}

type rtEface struct {
	Type *rtType
	Data unsafe.Pointer
}

// noescape hides a pointer from escape analysis. noescape is
// the identity function but escape analysis doesn't think the
// output depends on the input. noescape is inlined and currently
// compiles down to zero instructions.
// USE CAREFULLY!
//
// nolint:all
//
//go:nosplit
func noescape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
