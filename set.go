// Package chainset provides a generic, open, chained hash set with
// expected O(1) membership testing and insertion.
package chainset

import (
	"fmt"
	"math/rand/v2"
	"unsafe"
)

const (
	// minCapacity is the bucket count of a freshly initialized Set.
	minCapacity = 1

	// growthFactor and growthBias define the capacity growth policy:
	// newCap = growthFactor*cap + growthBias. The bias keeps every
	// capacity odd, which avoids degenerate modulo distributions for
	// hash functions biased toward powers of two. It does not make
	// capacities prime and is a heuristic, not a correctness requirement.
	growthFactor = 2
	growthBias   = 1

	// maxBucketSeedCap bounds the first-allocation capacity of a bucket.
	// With a load factor threshold of 1, buckets hold barely more than one
	// element on average; anything past one cache line is wasted space.
	maxBucketSeedCap = 8
)

// Set is a chained hash set of elements of type T.
//
// Elements are stored in an ordered sequence of buckets; an element always
// resides in the bucket selected by its hash modulo the current bucket
// count. When the element count reaches the bucket count (load factor 1),
// the bucket sequence is rebuilt at capacity 2c+1 and every element is
// redistributed. Growth completes before the triggering Insert returns and
// capacity never shrinks.
//
// The zero value is ready to use and behaves as an empty set with
// capacity 1. Direct initialization via Init or the New constructors allows
// custom hashing, custom equality and presizing.
//
// Set is not safe for concurrent use; callers sharing a Set across
// goroutines must serialize all access externally.
//
// The hash and equality capabilities must agree: equal elements must hash
// equal under the same seed. A hasher that is inconsistent with equality
// causes silent correctness failures (elements unreachable after a rehash,
// duplicates landing in distinct buckets). This is a precondition, not a
// checked error; the `chainset_check` build tag enables a debug checker
// that panics on violations it can detect.
type Set[T comparable] struct {
	buckets      [][]T
	size         int
	seed         uintptr
	keyHash      HashFunc
	keyEqual     EqualFunc
	bucketCap    int
	totalGrowths uint32
}

// New creates a new Set instance. Direct initialization is also supported.
//
// Parameters:
//   - WithPresize option for initial capacity
//   - WithKeyHasher / WithKeyEqual / WithBuiltInHasher options for custom
//     capabilities
func New[T comparable](options ...func(*Config)) *Set[T] {
	s := &Set[T]{}
	s.init(nil, nil, options...)
	return s
}

// NewWithHasher creates a Set with custom hash and equality functions.
//
// Parameters:
//   - keyHash: nil uses the built-in hasher
//   - keyEqual: nil uses the built-in comparison
//   - options as for New
//
// keyHash must be consistent with keyEqual: keyEqual(a, b) implies
// keyHash(a, seed) == keyHash(b, seed) for every seed.
func NewWithHasher[T comparable](
	keyHash func(value T, seed uintptr) uintptr,
	keyEqual func(a, b T) bool,
	options ...func(*Config),
) *Set[T] {
	s := &Set[T]{}
	s.Init(keyHash, keyEqual, options...)
	return s
}

// Config defines configurable Set options.
type Config struct {
	SizeHint int
	KeyHash  HashFunc
	KeyEqual EqualFunc
}

// WithPresize configures a new Set instance with capacity enough to hold
// sizeHint elements without growing. The configured capacity is rounded up
// to odd and never falls below the default capacity of 1. If sizeHint is
// zero or negative, the value is ignored.
func WithPresize(sizeHint int) func(*Config) {
	return func(c *Config) {
		c.SizeHint = sizeHint
	}
}

// WithKeyHasher configures a custom hash function for the element type.
// A nil hash restores the built-in hasher.
func WithKeyHasher[T comparable](
	keyHash func(value T, seed uintptr) uintptr,
) func(*Config) {
	return func(c *Config) {
		if keyHash == nil {
			c.KeyHash = nil
			return
		}
		c.KeyHash = func(ptr unsafe.Pointer, seed uintptr) uintptr {
			return keyHash(*(*T)(ptr), seed)
		}
	}
}

// WithKeyHasherUnsafe configures a custom hash function operating on raw
// element pointers. See GetBuiltInHasher for obtaining such a function.
func WithKeyHasherUnsafe(keyHash HashFunc) func(*Config) {
	return func(c *Config) {
		c.KeyHash = keyHash
	}
}

// WithKeyEqual configures a custom equality function for the element type.
// A nil equal restores the built-in comparison.
func WithKeyEqual[T comparable](keyEqual func(a, b T) bool) func(*Config) {
	return func(c *Config) {
		if keyEqual == nil {
			c.KeyEqual = nil
			return
		}
		c.KeyEqual = func(a, b unsafe.Pointer) bool {
			return keyEqual(*(*T)(a), *(*T)(b))
		}
	}
}

// WithBuiltInHasher returns a Config option that explicitly sets the
// built-in hash function for the specified type, ensuring the set uses the
// same hashing strategy as Go's native map.
//
// Usage:
//
//	s := New[string](WithBuiltInHasher[string]())
func WithBuiltInHasher[T comparable]() func(*Config) {
	return func(c *Config) {
		c.KeyHash = GetBuiltInHasher[T]()
	}
}

// Init initializes the Set, allowing custom hash (keyHash) and equality
// (keyEqual) functions.
//
// Parameters:
//   - keyHash: nil uses the built-in hasher
//   - keyEqual: nil uses the built-in comparison
//   - options as for New
//
// Notes:
//   - Init can only be used before the Set is utilized.
//   - If Init is not called, the Set uses the default configuration.
func (s *Set[T]) Init(
	keyHash func(value T, seed uintptr) uintptr,
	keyEqual func(a, b T) bool,
	options ...func(*Config),
) {
	var hs HashFunc
	var eq EqualFunc
	if keyHash != nil {
		hs = func(ptr unsafe.Pointer, seed uintptr) uintptr {
			return keyHash(*(*T)(ptr), seed)
		}
	}
	if keyEqual != nil {
		eq = func(a, b unsafe.Pointer) bool {
			return keyEqual(*(*T)(a), *(*T)(b))
		}
	}
	s.init(hs, eq, options...)
}

func (s *Set[T]) init(hs HashFunc, eq EqualFunc, options ...func(*Config)) {
	var c Config
	for _, o := range options {
		o(&c)
	}

	s.seed = uintptr(rand.Uint64())
	s.keyHash, s.keyEqual = defaultHasher[T]()
	if c.KeyHash != nil {
		s.keyHash = c.KeyHash
	}
	if hs != nil {
		s.keyHash = hs
	}
	if c.KeyEqual != nil {
		s.keyEqual = c.KeyEqual
	}
	if eq != nil {
		s.keyEqual = eq
	}

	s.bucketCap = calcBucketCap(unsafe.Sizeof(*new(T)))
	s.buckets = make([][]T, calcCapacity(c.SizeHint))
	s.size = 0
	s.totalGrowths = 0
}

// initSlow sets up a zero-value Set on first insertion.
func (s *Set[T]) initSlow() {
	s.init(nil, nil)
}

// calcCapacity computes the initial bucket count for a size hint.
// The result is always odd and at least minCapacity.
func calcCapacity(sizeHint int) int {
	if sizeHint <= minCapacity {
		return minCapacity
	}
	return sizeHint | 1
}

// calcBucketCap computes the first-allocation capacity for a bucket so the
// backing array spans at most one cache line of elements.
func calcBucketCap(elemSize uintptr) int {
	if elemSize == 0 || elemSize >= CacheLineSize {
		return 1
	}
	return min(maxBucketSeedCap, int(CacheLineSize/elemSize))
}

// Contains reports whether value is in the set.
//
// It computes the target bucket from the value's hash modulo the current
// capacity and scans that bucket linearly with the equality capability.
// There are no side effects and no failure modes: a capacity of at least 1
// keeps the bucket index well-defined even for an empty set.
func (s *Set[T]) Contains(value T) bool {
	if s.buckets == nil {
		return false
	}
	hash := s.keyHash(noescape(unsafe.Pointer(&value)), s.seed)
	bucket := s.buckets[hash%uintptr(len(s.buckets))]
	for i := range bucket {
		if s.keyEqual(
			noescape(unsafe.Pointer(&bucket[i])),
			noescape(unsafe.Pointer(&value)),
		) {
			return true
		}
	}
	return false
}

// Insert adds value to the set. It returns true if the value was inserted
// and false if an equal element was already present, in which case the set
// is left unchanged apart from a possible growth.
//
// The growth check runs before the membership test and uses the element
// count prior to this insertion: when size has reached the bucket count,
// the bucket sequence is rebuilt at capacity 2c+1 and all elements are
// redistributed before the new value is considered. The rebuild completes
// fully before Insert returns; callers observe either the pre-growth or the
// post-growth table, never an intermediate one.
func (s *Set[T]) Insert(value T) bool {
	if s.buckets == nil {
		s.initSlow()
	}
	// Growth decisions use the size prior to this insertion.
	if s.size >= len(s.buckets) {
		s.grow()
	}

	hash := s.keyHash(noescape(unsafe.Pointer(&value)), s.seed)
	idx := hash % uintptr(len(s.buckets))
	bucket := s.buckets[idx]
	for i := range bucket {
		if s.keyEqual(
			noescape(unsafe.Pointer(&bucket[i])),
			noescape(unsafe.Pointer(&value)),
		) {
			return false
		}
	}

	if bucket == nil {
		bucket = make([]T, 0, s.bucketCap)
	}
	s.buckets[idx] = append(bucket, value)
	s.size++
	return true
}

// InsertAll adds all values to the set and returns the number of values
// actually inserted, skipping those already present.
func (s *Set[T]) InsertAll(values ...T) int {
	inserted := 0
	for i := range values {
		if s.Insert(values[i]) {
			inserted++
		}
	}
	return inserted
}

// grow rebuilds the bucket sequence at capacity 2c+1 and redistributes
// every element by its recomputed bucket index. The new sequence is built
// aside and swapped in wholesale, so the visible table is never partially
// redistributed.
func (s *Set[T]) grow() {
	newLen := growthFactor*len(s.buckets) + growthBias
	newBuckets := make([][]T, newLen)
	for _, bucket := range s.buckets {
		for i := range bucket {
			hash := s.keyHash(noescape(unsafe.Pointer(&bucket[i])), s.seed)
			idx := hash % uintptr(newLen)
			dst := newBuckets[idx]
			if dst == nil {
				dst = make([]T, 0, s.bucketCap)
			}
			newBuckets[idx] = append(dst, bucket[i])
		}
	}
	s.buckets = newBuckets
	s.totalGrowths++

	if enableInvariantChecks {
		s.checkInvariants("grow")
	}
}

// Size returns the number of elements in the set.
// This is an O(1) operation.
func (s *Set[T]) Size() int {
	return s.size
}

// IsZero checks if the set is empty.
func (s *Set[T]) IsZero() bool {
	return s.size == 0
}

// Clone returns a deep copy of the set, preserving its capacity, seed and
// capabilities. No rehashing takes place; the clone and the original can be
// mutated independently afterwards.
func (s *Set[T]) Clone() *Set[T] {
	clone := &Set[T]{
		size:         s.size,
		seed:         s.seed,
		keyHash:      s.keyHash,
		keyEqual:     s.keyEqual,
		bucketCap:    s.bucketCap,
		totalGrowths: s.totalGrowths,
	}
	if s.buckets != nil {
		clone.buckets = make([][]T, len(s.buckets))
		for i, bucket := range s.buckets {
			if len(bucket) != 0 {
				dst := make([]T, len(bucket))
				copy(dst, bucket)
				clone.buckets[i] = dst
			}
		}
	}
	return clone
}

// checkInvariants verifies bucket residence and size accounting. It is
// wired into the mutation paths only when the `chainset_check` build tag
// is set, but can also be called directly.
func (s *Set[T]) checkInvariants(op string) {
	total := 0
	for idx, bucket := range s.buckets {
		for i := range bucket {
			hash := s.keyHash(noescape(unsafe.Pointer(&bucket[i])), s.seed)
			if want := int(hash % uintptr(len(s.buckets))); want != idx {
				panic(fmt.Sprintf(
					"chainset: %s left an element in bucket %d, want %d; "+
						"the hasher is inconsistent with equality or not deterministic",
					op, idx, want))
			}
		}
		total += len(bucket)
	}
	if total != s.size {
		panic(fmt.Sprintf(
			"chainset: %s size %d does not match %d stored elements",
			op, s.size, total))
	}
}
