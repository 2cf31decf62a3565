package filters

import (
	"fmt"
	"math"
)

// secondOrderCoefficients builds {1, -2r cos(θ), r²} from a center
// frequency and a 3 dB bandwidth, both in Hz.
func secondOrderCoefficients(frequency, bandwidth, sampleRate float64) []float64 {
	radius := math.Exp(-math.Pi * bandwidth / sampleRate)
	angle := 2.0 * math.Pi * frequency / sampleRate
	return []float64{1.0, -2.0 * radius * math.Cos(angle), radius * radius}
}

// SecondOrderDigitalFilter places a resonance pole, an antiresonance
// zero, or both, at given frequencies and bandwidths.
type SecondOrderDigitalFilter struct {
	filter *IIRFilter
	valid  bool
}

// SecondOrderDigitalFilterBuffer holds the filter state between
// samples.
type SecondOrderDigitalFilterBuffer struct {
	inner IIRFilterBuffer
}

// NewSecondOrderPoleFilter creates a resonator at the given frequency.
// The frequency must lie strictly between 0 and Nyquist and the
// bandwidth must be positive.
func NewSecondOrderPoleFilter(frequency, bandwidth, sampleRate float64) *SecondOrderDigitalFilter {
	f := &SecondOrderDigitalFilter{
		filter: NewIIRFilter(
			secondOrderCoefficients(frequency, bandwidth, sampleRate),
			[]float64{1.0},
		),
	}
	f.valid = validSecondOrder(frequency, bandwidth, sampleRate) && f.filter.IsValid()
	return f
}

// NewSecondOrderZeroFilter creates an antiresonator at the given
// frequency.
func NewSecondOrderZeroFilter(frequency, bandwidth, sampleRate float64) *SecondOrderDigitalFilter {
	f := &SecondOrderDigitalFilter{
		filter: NewIIRFilter(
			[]float64{1.0},
			secondOrderCoefficients(frequency, bandwidth, sampleRate),
		),
	}
	f.valid = validSecondOrder(frequency, bandwidth, sampleRate) && f.filter.IsValid()
	return f
}

// NewSecondOrderPoleZeroFilter creates a filter with both a pole pair
// and a zero pair.
func NewSecondOrderPoleZeroFilter(poleFrequency, poleBandwidth, zeroFrequency, zeroBandwidth, sampleRate float64) *SecondOrderDigitalFilter {
	f := &SecondOrderDigitalFilter{
		filter: NewIIRFilter(
			secondOrderCoefficients(poleFrequency, poleBandwidth, sampleRate),
			secondOrderCoefficients(zeroFrequency, zeroBandwidth, sampleRate),
		),
	}
	f.valid = validSecondOrder(poleFrequency, poleBandwidth, sampleRate) &&
		validSecondOrder(zeroFrequency, zeroBandwidth, sampleRate) &&
		f.filter.IsValid()
	return f
}

func validSecondOrder(frequency, bandwidth, sampleRate float64) bool {
	nyquist := 0.5 * sampleRate
	return frequency > 0.0 && frequency < nyquist && bandwidth > 0.0
}

// IsValid reports whether the filter configuration is usable.
func (f *SecondOrderDigitalFilter) IsValid() bool {
	return f.valid
}

// Run filters a single sample.
func (f *SecondOrderDigitalFilter) Run(input float64, buffer *SecondOrderDigitalFilterBuffer) (float64, error) {
	if !f.valid {
		return 0, fmt.Errorf("second order filter: invalid configuration")
	}
	if buffer == nil {
		return 0, fmt.Errorf("second order filter: nil buffer")
	}
	return f.filter.Run(input, &buffer.inner)
}
