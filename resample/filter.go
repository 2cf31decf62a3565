package resample

import (
	"fmt"
	"math"

	"github.com/sonidolab/cepstra/algorithms/windowing"
)

// numPhases is the number of polyphase branches in the interpolation
// kernel. The fractional read position selects a branch; positions
// between branches are resolved by linear interpolation.
const numPhases = 128

// interpolationFilter is a windowed-sinc kernel sampled at numPhases
// points per input sample. Each polyphase branch is normalized to
// unit DC gain so a constant signal passes through unchanged.
type interpolationFilter struct {
	prototype    []float64
	tapsPerPhase int
	halfTaps     int
}

// designInterpolationFilter builds the kernel. cutoff is the lowpass
// cutoff in input-sample normalized frequency (0, 0.5]; attenuation
// is the Kaiser stopband attenuation in dB; tapsPerPhase must be even.
func designInterpolationFilter(tapsPerPhase int, cutoff, attenuation float64) (*interpolationFilter, error) {
	if tapsPerPhase < 4 || tapsPerPhase%2 != 0 {
		return nil, fmt.Errorf("resample filter: taps per phase %d must be even and at least 4", tapsPerPhase)
	}
	if cutoff <= 0.0 || cutoff > 0.5 {
		return nil, fmt.Errorf("resample filter: cutoff %g out of range (0, 0.5]", cutoff)
	}

	length := tapsPerPhase*numPhases + 1
	beta := windowing.AttenuationToBeta(attenuation)
	window := windowing.NewKaiserWindow(length, beta, false)
	if !window.IsValid() {
		return nil, fmt.Errorf("resample filter: kaiser window of length %d", length)
	}
	taper := window.GetCoefficients()

	center := tapsPerPhase * numPhases / 2
	prototype := make([]float64, length)
	for n := range prototype {
		u := float64(n-center) / float64(numPhases)
		arg := 2.0 * math.Pi * cutoff * u
		sinc := 2.0 * cutoff
		if arg != 0.0 {
			sinc = math.Sin(arg) / (math.Pi * u)
		}
		prototype[n] = sinc * taper[n]
	}

	// Normalize every polyphase branch to unit DC gain.
	for r := 0; r < numPhases; r++ {
		sum := 0.0
		for k := 0; k < tapsPerPhase; k++ {
			sum += prototype[k*numPhases+r]
		}
		if sum == 0.0 {
			return nil, fmt.Errorf("resample filter: degenerate branch %d", r)
		}
		for k := 0; k < tapsPerPhase; k++ {
			prototype[k*numPhases+r] /= sum
		}
		if r == 0 {
			prototype[tapsPerPhase*numPhases] /= sum
		}
	}

	return &interpolationFilter{
		prototype:    prototype,
		tapsPerPhase: tapsPerPhase,
		halfTaps:     tapsPerPhase / 2,
	}, nil
}

// interpolate evaluates the kernel centered at fractional position
// base+frac within buf. The caller guarantees tapsPerPhase samples
// are available starting at base-halfTaps+1.
func (f *interpolationFilter) interpolate(buf []float64, base int, frac float64) float64 {
	q := frac * float64(numPhases)
	phase := int(q)
	if phase >= numPhases {
		phase = numPhases - 1
	}
	phaseFrac := q - float64(phase)

	acc := 0.0
	start := base - f.halfTaps + 1
	for t := 0; t < f.tapsPerPhase; t++ {
		j := numPhases*(f.tapsPerPhase-1-t) + phase
		c0 := f.prototype[j]
		c1 := f.prototype[j+1]
		acc += buf[start+t] * (c0 + phaseFrac*(c1-c0))
	}
	return acc
}
