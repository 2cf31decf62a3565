package windowing

import (
	"math"
)

// ChebyshevWindow generates a Dolph-Chebyshev window with equiripple
// sidelobes at the given ripple ratio.
type ChebyshevWindow struct {
	size         int
	rippleRatio  float64
	periodic     bool
	coefficients []float64
	valid        bool
}

// NewChebyshevWindow creates a Chebyshev window of the given length.
// The ripple ratio must be positive.
func NewChebyshevWindow(size int, rippleRatio float64, periodic bool) *ChebyshevWindow {
	w := &ChebyshevWindow{
		size:        size,
		rippleRatio: rippleRatio,
		periodic:    periodic,
	}
	if size <= 0 || rippleRatio <= 0.0 {
		return w
	}
	w.valid = true
	w.generate()
	return w
}

// chebyshevT evaluates the Chebyshev polynomial of the first kind,
// extended outside [-1, 1] via the hyperbolic form.
func chebyshevT(x float64, n int) float64 {
	switch {
	case math.Abs(x) <= 1.0:
		return math.Cos(float64(n) * math.Acos(x))
	case x > 1.0:
		return math.Cosh(float64(n) * math.Acosh(x))
	default:
		t := math.Cosh(float64(n) * math.Acosh(-x))
		if n%2 != 0 {
			t = -t
		}
		return t
	}
}

func (w *ChebyshevWindow) generate() {
	w.coefficients = make([]float64, w.size)
	if w.size == 1 {
		w.coefficients[0] = 1.0
		return
	}

	n := w.size
	if w.periodic {
		n = w.size + 1
	}
	n1 := n - 1
	s := 1.0 / w.rippleRatio
	x0 := math.Cosh(math.Acosh(s) / float64(n1))

	if n%2 == 0 {
		for i := 0; i < w.size; i++ {
			j := 2*i + 1
			sum := 0.0
			sign := 1.0
			for k := 0; k <= n1; k++ {
				t := math.Pi * float64(k) / float64(n)
				sum += sign * chebyshevT(x0*math.Cos(t), n1) * math.Cos(t*float64(j))
				sign = -sign
			}
			w.coefficients[i] = sum
		}
	} else {
		m := n1 / 2
		for i := 0; i < w.size; i++ {
			j := 2 * (i - m)
			sum := 0.0
			for k := 1; k <= m; k++ {
				t := math.Pi * float64(k) / float64(n)
				sum += chebyshevT(x0*math.Cos(t), n1) * math.Cos(t*float64(j))
			}
			w.coefficients[i] = s + 2.0*sum
		}
	}

	// Normalize to have one as the largest value.
	z := 0.0
	for i := 0; i <= w.size/2; i++ {
		if z < w.coefficients[i] {
			z = w.coefficients[i]
		}
	}
	z = 1.0 / z
	for i := range w.coefficients {
		w.coefficients[i] *= z
	}
}

// AttenuationToRippleRatio converts a target sidelobe attenuation in
// dB to the Chebyshev ripple ratio.
func AttenuationToRippleRatio(attenuation float64) float64 {
	return 1.0 / math.Pow(10.0, attenuation/20.0)
}

// Apply applies the window to a signal (creates new array).
func (w *ChebyshevWindow) Apply(signal []float64) []float64 {
	return applyWindow(w.coefficients, signal)
}

// ApplyInPlace applies the window to a signal in-place.
func (w *ChebyshevWindow) ApplyInPlace(signal []float64) error {
	return applyWindowInPlace(w.coefficients, signal)
}

// GetCoefficients returns a copy of the window coefficients.
func (w *ChebyshevWindow) GetCoefficients() []float64 {
	return copyCoefficients(w.coefficients)
}

// GetSize returns the window size.
func (w *ChebyshevWindow) GetSize() int {
	return w.size
}

// GetType returns the window type name.
func (w *ChebyshevWindow) GetType() string {
	return "chebyshev"
}

// GetRippleRatio returns the ripple ratio.
func (w *ChebyshevWindow) GetRippleRatio() float64 {
	return w.rippleRatio
}

// IsValid reports whether the window configuration is usable.
func (w *ChebyshevWindow) IsValid() bool {
	return w.valid
}
