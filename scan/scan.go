// Package scan provides linear scan kernels over int32 slot arrays.
// The best kernel for the running CPU is selected at init.
package scan

var (
	indexOfImpl     func(slots []int32, target int32) int
	indexOfImplDesc string
)

func init() {
	// Default; dispatch.go overrides in init() based on cpu features.
	if indexOfImpl == nil {
		indexOfImpl = indexOfGo
		indexOfImplDesc = "Go"
	}
}

// IndexOf returns the index of the first slot equal to target, in increasing
// index order, or -1 if no slot matches.
func IndexOf(slots []int32, target int32) int {
	if len(slots) == 0 {
		return -1
	}
	if indexOfImpl != nil {
		return indexOfImpl(slots, target)
	}
	return indexOfGo(slots, target)
}

// Contains reports whether any slot equals target.
func Contains(slots []int32, target int32) bool {
	return IndexOf(slots, target) >= 0
}

// ImplDesc returns a description of the selected kernel (for logging).
func ImplDesc() string {
	if indexOfImplDesc != "" {
		return indexOfImplDesc
	}
	return "Go"
}

// indexOfGo is the plain loop.
func indexOfGo(slots []int32, target int32) int {
	for i, v := range slots {
		if v == target {
			return i
		}
	}
	return -1
}

// indexOfUnroll8 compares eight slots per iteration and only branches into
// the exact position once a block is known to contain a match.
func indexOfUnroll8(slots []int32, target int32) int {
	n := len(slots)
	i := 0
	for ; i+8 <= n; i += 8 {
		s := slots[i : i+8 : i+8]
		if s[0] == target || s[1] == target || s[2] == target || s[3] == target ||
			s[4] == target || s[5] == target || s[6] == target || s[7] == target {
			for j, v := range s {
				if v == target {
					return i + j
				}
			}
		}
	}
	for ; i < n; i++ {
		if slots[i] == target {
			return i
		}
	}
	return -1
}
