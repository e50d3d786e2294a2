// Package smooth implements the Gaussian kernel smoothing applied to pitch
// histograms.
//
// Short kernels are convolved directly with vectorized scale/add blocks; long
// kernels go through a single zero-padded FFT.
package smooth

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by smoothing functions.
var (
	ErrEmptyInput   = errors.New("smooth: empty input")
	ErrEmptyKernel  = errors.New("smooth: empty kernel")
	ErrInvalidSigma = errors.New("smooth: kernel width must be > 0")
	ErrInvalidStep  = errors.New("smooth: step size must be > 0")
)

// Extent is the kernel half-width in standard deviations.
const Extent = 5.0

// directThreshold is the kernel length up to which direct convolution is used.
const directThreshold = 64

// HalfWidth returns the number of samples on each side of the kernel center
// for a Gaussian of standard deviation sigma sampled every step.
func HalfWidth(sigma, step float64) int {
	if sigma <= 0 || step <= 0 {
		return 0
	}
	return int(math.Ceil(Extent * sigma / step))
}

// Gaussian returns the normal density with standard deviation sigma sampled
// every step over [-Extent*sigma, Extent*sigma]. The result has odd length
// and is symmetric around its center sample.
func Gaussian(sigma, step float64) ([]float64, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSigma, sigma)
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidStep, step)
	}

	half := HalfWidth(sigma, step)
	k := make([]float64, 2*half+1)
	norm := 1 / (sigma * math.Sqrt(2*math.Pi))
	for i := range k {
		x := float64(i-half) * step
		k[i] = norm * math.Exp(-x*x/(2*sigma*sigma))
	}
	return k, nil
}

// Full returns the full linear convolution of x and kernel, of length
// len(x)+len(kernel)-1.
func Full(x, kernel []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if len(kernel) <= directThreshold {
		return direct(x, kernel), nil
	}
	return fftConvolve(x, kernel)
}

// Same returns the central len(x) samples of the full convolution, aligned so
// that an odd-length symmetric kernel does not shift x.
func Same(x, kernel []float64) ([]float64, error) {
	full, err := Full(x, kernel)
	if err != nil {
		return nil, err
	}
	start := (len(kernel) - 1) / 2
	out := make([]float64, len(x))
	copy(out, full[start:start+len(x)])
	return out, nil
}

func direct(x, kernel []float64) []float64 {
	m := len(kernel)
	out := make([]float64, len(x)+m-1)
	tmp := make([]float64, m)
	for i, v := range x {
		if v == 0 {
			continue
		}
		vecmath.ScaleBlock(tmp, kernel, v)
		vecmath.AddBlockInPlace(out[i:i+m], tmp)
	}
	return out
}

func fftConvolve(x, kernel []float64) ([]float64, error) {
	outLen := len(x) + len(kernel) - 1
	n := nextPowerOf2(outLen)

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("smooth: failed to create FFT plan: %w", err)
	}

	xf := make([]complex128, n)
	kf := make([]complex128, n)
	for i, v := range x {
		xf[i] = complex(v, 0)
	}
	for i, v := range kernel {
		kf[i] = complex(v, 0)
	}

	if err := plan.Forward(xf, xf); err != nil {
		return nil, fmt.Errorf("smooth: forward FFT failed: %w", err)
	}
	if err := plan.Forward(kf, kf); err != nil {
		return nil, fmt.Errorf("smooth: forward FFT failed: %w", err)
	}
	for i := range xf {
		xf[i] *= kf[i]
	}
	res := make([]complex128, n)
	if err := plan.Inverse(res, xf); err != nil {
		return nil, fmt.Errorf("smooth: inverse FFT failed: %w", err)
	}

	out := make([]float64, outLen)
	for i := range out {
		v := real(res[i])
		// Histograms and kernels are non-negative; anything below zero is round-off.
		if v < 0 {
			v = 0
		}
		out[i] = v
	}
	return out, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
