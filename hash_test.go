package chainset

import (
	"testing"
	"unsafe"
)

func TestDefaultHasher_Deterministic(t *testing.T) {
	keyHash, keyEqual := defaultHasher[string]()
	if keyHash == nil || keyEqual == nil {
		t.Fatal("defaultHasher returned nil capability")
	}
	const seed = uintptr(12345)
	for i := range testData {
		a, b := testData[i], testData[i]
		ha := keyHash(noescape(unsafe.Pointer(&a)), seed)
		hb := keyHash(noescape(unsafe.Pointer(&b)), seed)
		if ha != hb {
			t.Fatalf("hash of %q not deterministic: %d vs %d", a, ha, hb)
		}
		if !keyEqual(noescape(unsafe.Pointer(&a)), noescape(unsafe.Pointer(&b))) {
			t.Fatalf("equal values %q compared unequal", a)
		}
	}
}

func TestDefaultHasher_ConsistencyLaw(t *testing.T) {
	keyHash, keyEqual := defaultHasher[structKey]()
	const seed = uintptr(7)
	a := structKey{Service: 3, Instance: 99}
	b := structKey{Service: 3, Instance: 99}
	c := structKey{Service: 4, Instance: 99}
	if !keyEqual(noescape(unsafe.Pointer(&a)), noescape(unsafe.Pointer(&b))) {
		t.Fatal("identical struct keys compared unequal")
	}
	ha := keyHash(noescape(unsafe.Pointer(&a)), seed)
	hb := keyHash(noescape(unsafe.Pointer(&b)), seed)
	if ha != hb {
		t.Fatalf("equal struct keys hash to %d and %d", ha, hb)
	}
	if keyEqual(noescape(unsafe.Pointer(&a)), noescape(unsafe.Pointer(&c))) {
		t.Fatal("distinct struct keys compared equal")
	}
}

func TestDefaultHasher_IntIdentity(t *testing.T) {
	keyHash, _ := defaultHasher[int]()
	for _, v := range []int{0, 1, 42, 1 << 20} {
		v := v
		h1 := keyHash(noescape(unsafe.Pointer(&v)), 0)
		h2 := keyHash(noescape(unsafe.Pointer(&v)), 999)
		if h1 != h2 {
			t.Fatalf("integer fast path must ignore the seed: %d vs %d", h1, h2)
		}
		if h1 != uintptr(v) {
			t.Fatalf("integer fast path of %d: got %d", v, h1)
		}
	}
}

func TestGetBuiltInHasher(t *testing.T) {
	keyHash := GetBuiltInHasher[string]()
	if keyHash == nil {
		t.Fatal("GetBuiltInHasher returned nil")
	}
	v := "chainset"
	const seed = uintptr(1)
	if keyHash(noescape(unsafe.Pointer(&v)), seed) !=
		keyHash(noescape(unsafe.Pointer(&v)), seed) {
		t.Fatal("built-in hasher not deterministic")
	}
}
