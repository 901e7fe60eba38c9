// Package gen 提供压测用查询目标生成
package gen

import (
	"math"
	"math/rand"
)

// Targets 生成 n 个查询目标：命中目标落在 build(size) 写入的 [1, 2*size+1]，
// 未命中目标为负数或大于 2*size+1。hitRatio 取值 [0,1]。
func Targets(n, size int, hitRatio float64, seed int64) []int32 {
	rng := rand.New(rand.NewSource(seed))
	hi := int64(2*size + 1)
	out := make([]int32, n)
	for i := range out {
		if size >= 0 && rng.Float64() < hitRatio {
			out[i] = int32(1 + rng.Int63n(hi))
			continue
		}
		if rng.Intn(2) == 0 || hi >= math.MaxInt32 {
			out[i] = -int32(1 + rng.Int31n(math.MaxInt32-1))
			continue
		}
		out[i] = int32(hi + 1 + rng.Int63n(math.MaxInt32-hi))
	}
	return out
}
