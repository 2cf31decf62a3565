package windowing

import (
	"math"
)

// KaiserWindow generates a Kaiser window with shape parameter beta.
type KaiserWindow struct {
	size         int
	beta         float64
	periodic     bool
	coefficients []float64
	valid        bool
}

// NewKaiserWindow creates a Kaiser window of the given length. Beta
// must be non-negative; beta == 0 degenerates to rectangular.
func NewKaiserWindow(size int, beta float64, periodic bool) *KaiserWindow {
	w := &KaiserWindow{
		size:     size,
		beta:     beta,
		periodic: periodic,
	}
	if size <= 0 || beta < 0.0 {
		return w
	}
	w.valid = true
	w.generate()
	return w
}

func (w *KaiserWindow) generate() {
	w.coefficients = make([]float64, w.size)
	if w.size == 1 {
		w.coefficients[0] = 1.0
		return
	}

	a := 0.5 * float64(w.size-1)
	if w.periodic {
		a = 0.5 * float64(w.size)
	}
	z := 1.0 / besselI0(w.beta)
	for i := range w.coefficients {
		x := (float64(i) - a) / a
		w.coefficients[i] = z * besselI0(w.beta*math.Sqrt(1.0-x*x))
	}
}

// besselI0 computes the zeroth-order modified Bessel function of the
// first kind by series expansion, stopping once the partial sum stops
// moving by more than eps.
func besselI0(x float64) float64 {
	const (
		upperLimit = 500
		eps        = 1e-6
	)
	y := 0.5 * x
	z := 1.0
	sum := 1.0
	prevSum := sum
	for i := 1; i < upperLimit; i++ {
		z *= y / float64(i)
		sum += z * z
		if sum-prevSum < eps {
			break
		}
		prevSum = sum
	}
	return sum
}

// AttenuationToBeta converts a target sidelobe attenuation in dB to
// the Kaiser beta parameter.
func AttenuationToBeta(attenuation float64) float64 {
	switch {
	case attenuation <= 21.0:
		return 0.0
	case attenuation <= 50.0:
		a := attenuation - 21.0
		return 0.5842*math.Pow(a, 0.4) + 0.07886*a
	default:
		return 0.1102 * (attenuation - 8.7)
	}
}

// Apply applies the window to a signal (creates new array).
func (w *KaiserWindow) Apply(signal []float64) []float64 {
	return applyWindow(w.coefficients, signal)
}

// ApplyInPlace applies the window to a signal in-place.
func (w *KaiserWindow) ApplyInPlace(signal []float64) error {
	return applyWindowInPlace(w.coefficients, signal)
}

// GetCoefficients returns a copy of the window coefficients.
func (w *KaiserWindow) GetCoefficients() []float64 {
	return copyCoefficients(w.coefficients)
}

// GetSize returns the window size.
func (w *KaiserWindow) GetSize() int {
	return w.size
}

// GetType returns the window type name.
func (w *KaiserWindow) GetType() string {
	return "kaiser"
}

// GetBeta returns the Kaiser beta parameter.
func (w *KaiserWindow) GetBeta() float64 {
	return w.beta
}

// IsValid reports whether the window configuration is usable.
func (w *KaiserWindow) IsValid() bool {
	return w.valid
}
