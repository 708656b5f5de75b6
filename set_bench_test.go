package chainset

import (
	"testing"
)

func BenchmarkSetContainsSmall(b *testing.B) {
	benchmarkSetContains(b, testDataSmall[:])
}

func BenchmarkSetContains(b *testing.B) {
	benchmarkSetContains(b, testData[:])
}

func BenchmarkSetContainsLarge(b *testing.B) {
	benchmarkSetContains(b, testDataLarge[:])
}

func benchmarkSetContains(b *testing.B, data []string) {
	b.ReportAllocs()
	s := New[string]()
	for i := range data {
		s.Insert(data[i])
	}
	b.ResetTimer()
	i := 0
	for n := 0; n < b.N; n++ {
		_ = s.Contains(data[i])
		i++
		if i >= len(data) {
			i = 0
		}
	}
}

func BenchmarkSetInsert(b *testing.B) {
	benchmarkSetInsert(b, testData[:])
}

func BenchmarkSetInsertLarge(b *testing.B) {
	benchmarkSetInsert(b, testDataLarge[:])
}

func benchmarkSetInsert(b *testing.B, data []string) {
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		var s Set[string]
		for i := range data {
			s.Insert(data[i])
		}
	}
}

func BenchmarkSetInsertPresized(b *testing.B) {
	b.ReportAllocs()
	for n := 0; n < b.N; n++ {
		s := New[string](WithPresize(len(testData)))
		for i := range testData {
			s.Insert(testData[i])
		}
	}
}

func BenchmarkSetInsertInt(b *testing.B) {
	b.ReportAllocs()
	for n := 0; n < b.N; n++ {
		var s Set[int]
		for i := range testDataInt {
			s.Insert(testDataInt[i])
		}
	}
}

func BenchmarkSetContainsInt(b *testing.B) {
	b.ReportAllocs()
	s := New[int]()
	for i := range testDataIntLarge {
		s.Insert(testDataIntLarge[i])
	}
	b.ResetTimer()
	i := 0
	for n := 0; n < b.N; n++ {
		_ = s.Contains(testDataIntLarge[i])
		i++
		if i >= len(testDataIntLarge) {
			i = 0
		}
	}
}
