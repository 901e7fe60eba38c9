package scan

import "golang.org/x/sys/cpu"

func init() {
	switch {
	case cpu.X86.HasAVX2:
		indexOfImpl = indexOfUnroll8
		indexOfImplDesc = "Go-unroll8 (AVX2)"
	case cpu.ARM64.HasASIMD:
		indexOfImpl = indexOfUnroll8
		indexOfImplDesc = "Go-unroll8 (ASIMD)"
	default:
		indexOfImpl = indexOfGo
		indexOfImplDesc = "Go"
	}
}
