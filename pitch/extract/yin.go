package extract

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// yin holds the buffers of the per-frame YIN estimator for one frame size.
type yin struct {
	size   int // frame length N
	window int // integration window W = N/2; lags run over [0, W)
	plan   *algofft.Plan[complex128]
	a, b   []complex128
	r      []complex128
	energy []float64 // energy[i] is the sum of x[k]^2 for k < i
	cmnd   []float64
}

func newYIN(frameSize int) (*yin, error) {
	n := nextPowerOf2(frameSize)
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("extract: failed to create FFT plan: %w", err)
	}
	return &yin{
		size:   frameSize,
		window: frameSize / 2,
		plan:   plan,
		a:      make([]complex128, n),
		b:      make([]complex128, n),
		r:      make([]complex128, n),
		energy: make([]float64, frameSize+1),
		cmnd:   make([]float64, frameSize/2),
	}, nil
}

// rms returns the root mean square of the last analysed frame.
func (y *yin) rms() float64 {
	return math.Sqrt(y.energy[y.size] / float64(y.size))
}

// analyse fills y.cmnd with the cumulative-mean-normalized difference of x,
// which must have length y.size.
func (y *yin) analyse(x []float64) error {
	w := y.window

	for i, v := range x {
		y.energy[i+1] = y.energy[i] + v*v
	}

	// r(tau) = sum_{j<W} x[j] x[j+tau] as the cross-correlation of the frame
	// with its first half.
	clear(y.a)
	clear(y.b)
	for i, v := range x {
		y.a[i] = complex(v, 0)
	}
	for i := 0; i < w; i++ {
		y.b[i] = complex(x[i], 0)
	}
	if err := y.plan.Forward(y.a, y.a); err != nil {
		return fmt.Errorf("extract: forward FFT failed: %w", err)
	}
	if err := y.plan.Forward(y.b, y.b); err != nil {
		return fmt.Errorf("extract: forward FFT failed: %w", err)
	}
	for i := range y.a {
		br, bi := real(y.b[i]), imag(y.b[i])
		y.a[i] *= complex(br, -bi)
	}
	if err := y.plan.Inverse(y.r, y.a); err != nil {
		return fmt.Errorf("extract: inverse FFT failed: %w", err)
	}

	e0 := y.energy[w]
	y.cmnd[0] = 1
	var running float64
	for tau := 1; tau < w; tau++ {
		et := y.energy[tau+w] - y.energy[tau]
		d := e0 + et - 2*real(y.r[tau])
		if d < 0 {
			d = 0
		}
		running += d
		if running == 0 {
			y.cmnd[tau] = 1
			continue
		}
		y.cmnd[tau] = d * float64(tau) / running
	}
	return nil
}

// period searches lags [lo, hi] for the first dip under threshold and returns
// the refined period in samples. ok is false when no lag qualifies; aperiodicity
// is the normalized difference at the chosen (or, if none, the smallest) lag.
func (y *yin) period(lo, hi int, threshold float64) (period, aperiodicity float64, ok bool) {
	lo = max(lo, 2)
	hi = min(hi, y.window-2)
	if lo > hi {
		return 0, 1, false
	}

	best := lo
	for tau := lo; tau <= hi; tau++ {
		if y.cmnd[tau] < y.cmnd[best] {
			best = tau
		}
		if y.cmnd[tau] >= threshold {
			continue
		}
		for tau+1 <= hi && y.cmnd[tau+1] < y.cmnd[tau] {
			tau++
		}
		return y.refine(tau), y.cmnd[tau], true
	}
	return 0, y.cmnd[best], false
}

// refine fits a parabola through the normalized difference around tau.
func (y *yin) refine(tau int) float64 {
	s0, s1, s2 := y.cmnd[tau-1], y.cmnd[tau], y.cmnd[tau+1]
	den := s0 - 2*s1 + s2
	if den == 0 {
		return float64(tau)
	}
	shift := 0.5 * (s0 - s2) / den
	if math.Abs(shift) > 1 {
		return float64(tau)
	}
	return float64(tau) + shift
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
