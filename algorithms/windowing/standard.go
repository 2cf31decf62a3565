package windowing

import (
	"math"
)

// StandardWindowType identifies a tabulated window shape.
type StandardWindowType int

const (
	Bartlett StandardWindowType = iota
	Blackman
	BlackmanHarris
	BlackmanNuttall
	FlatTop
	Hamming
	Hanning
	Nuttall
	Rectangular
	Trapezoidal
)

var standardWindowNames = map[StandardWindowType]string{
	Bartlett:        "bartlett",
	Blackman:        "blackman",
	BlackmanHarris:  "blackman-harris",
	BlackmanNuttall: "blackman-nuttall",
	FlatTop:         "flat-top",
	Hamming:         "hamming",
	Hanning:         "hanning",
	Nuttall:         "nuttall",
	Rectangular:     "rectangular",
	Trapezoidal:     "trapezoidal",
}

// Cosine-sum coefficient tables. The k-th term enters the sum with
// alternating sign.
var cosineSumCoefficients = map[StandardWindowType][]float64{
	Blackman:        {0.42, 0.5, 0.08},
	BlackmanHarris:  {0.35875, 0.48829, 0.14128, 0.01168},
	BlackmanNuttall: {0.3635819, 0.4891775, 0.1365995, 0.0106411},
	FlatTop:         {0.21557895, 0.41663158, 0.277263158, 0.083578947, 0.006947368},
	Hamming:         {0.54, 0.46},
	Hanning:         {0.5, 0.5},
	Nuttall:         {0.3635819, 0.4891775, 0.1365995, 0.0106411},
}

// StandardWindow generates the classic cosine-family and piecewise
// linear windows. A periodic window uses L as the denominator instead
// of L-1, which suits spectral analysis with overlapping frames.
type StandardWindow struct {
	size         int
	windowType   StandardWindowType
	periodic     bool
	coefficients []float64
	valid        bool
}

// NewStandardWindow creates a window of the given length and type.
func NewStandardWindow(size int, windowType StandardWindowType, periodic bool) *StandardWindow {
	w := &StandardWindow{
		size:       size,
		windowType: windowType,
		periodic:   periodic,
	}
	if size <= 0 {
		return w
	}
	if _, ok := standardWindowNames[windowType]; !ok {
		return w
	}
	w.valid = true
	w.generate()
	return w
}

func (w *StandardWindow) generate() {
	w.coefficients = make([]float64, w.size)
	if w.size == 1 {
		w.coefficients[0] = 1.0
		return
	}

	denominator := float64(w.size - 1)
	if w.periodic {
		denominator = float64(w.size)
	}

	switch w.windowType {
	case Bartlett:
		center := (w.size + 1) / 2
		if w.size%2 == 0 {
			center = w.size / 2
		}
		slope := 2.0 / denominator
		for i := 0; i < center; i++ {
			w.coefficients[i] = slope * float64(i)
		}
		for i := center; i < w.size; i++ {
			w.coefficients[i] = 2.0 - slope*float64(i)
		}
	case Rectangular:
		for i := range w.coefficients {
			w.coefficients[i] = 1.0
		}
	case Trapezoidal:
		quarter := int(math.Round(0.25 * float64(w.size)))
		slope := 4.0 / denominator
		for i := 0; i < quarter; i++ {
			w.coefficients[i] = slope * float64(i)
		}
		for i := quarter; i < w.size-quarter; i++ {
			w.coefficients[i] = 1.0
		}
		for i := w.size - quarter; i < w.size; i++ {
			w.coefficients[i] = 4.0 - slope*float64(i)
		}
	default:
		terms := cosineSumCoefficients[w.windowType]
		for i := range w.coefficients {
			sum := 0.0
			sign := 1.0
			for k, a := range terms {
				sum += sign * a * math.Cos(2.0*math.Pi*float64(k)*float64(i)/denominator)
				sign = -sign
			}
			w.coefficients[i] = sum
		}
	}
}

// Apply applies the window to a signal (creates new array).
func (w *StandardWindow) Apply(signal []float64) []float64 {
	return applyWindow(w.coefficients, signal)
}

// ApplyInPlace applies the window to a signal in-place.
func (w *StandardWindow) ApplyInPlace(signal []float64) error {
	return applyWindowInPlace(w.coefficients, signal)
}

// GetCoefficients returns a copy of the window coefficients.
func (w *StandardWindow) GetCoefficients() []float64 {
	return copyCoefficients(w.coefficients)
}

// GetSize returns the window size.
func (w *StandardWindow) GetSize() int {
	return w.size
}

// GetType returns the window type name.
func (w *StandardWindow) GetType() string {
	return standardWindowNames[w.windowType]
}

// IsPeriodic reports whether the window is periodic.
func (w *StandardWindow) IsPeriodic() bool {
	return w.periodic
}

// IsValid reports whether the window configuration is usable.
func (w *StandardWindow) IsValid() bool {
	return w.valid
}
