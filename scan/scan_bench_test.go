package scan

import (
	"runtime"
	"testing"

	"golang.org/x/sys/cpu"
)

const benchSlots = 1 << 20

func BenchmarkIndexOf_Go(b *testing.B) {
	s := countingSlots(benchSlots)
	b.SetBytes(int64(len(s) * 4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = indexOfGo(s, -1)
	}
}

func BenchmarkIndexOf_Unroll8(b *testing.B) {
	if runtime.GOARCH == "amd64" && !cpu.X86.HasAVX2 {
		b.Skip("AVX2 不可用，跳过")
	}
	s := countingSlots(benchSlots)
	b.SetBytes(int64(len(s) * 4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = indexOfUnroll8(s, -1)
	}
}

func BenchmarkIndexOf_Auto(b *testing.B) {
	s := countingSlots(benchSlots)
	b.SetBytes(int64(len(s) * 4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = IndexOf(s, -1)
	}
}
