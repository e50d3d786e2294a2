//go:build fastmath

package pitch

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// log2 backs HzToCent with the approximate natural logarithm.
func log2(x float64) float64 {
	return approx.FastLog(x) / math.Ln2
}
