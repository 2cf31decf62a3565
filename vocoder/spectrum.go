package vocoder

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"

	"github.com/sonidolab/cepstra/algorithms/windowing"
	"github.com/sonidolab/cepstra/logging"
)

// SpectrumExtractionAlgorithm selects the spectral envelope
// estimator variant.
type SpectrumExtractionAlgorithm int

const (
	// SpectrumWorldCheapTrick follows the WORLD CheapTrick
	// pitch-adaptive estimator.
	SpectrumWorldCheapTrick SpectrumExtractionAlgorithm = iota

	numSpectrumAlgorithms
)

func (a SpectrumExtractionAlgorithm) String() string {
	switch a {
	case SpectrumWorldCheapTrick:
		return "world-cheaptrick"
	default:
		return "unknown"
	}
}

// CheapTrickF0Floor returns the lowest F0 the estimator can resolve
// for the given sampling rate and FFT length. Voiced contour values
// below the floor are rejected.
func CheapTrickF0Floor(sampleRate float64, fftLength int) float64 {
	return 3.0 * sampleRate / (float64(fftLength) - 3.0)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// SpectrumExtraction estimates a pitch-adaptive power spectrum per
// frame. Each output frame holds fftLength/2+1 values.
type SpectrumExtraction struct {
	fftLength  int
	frameShift int
	sampleRate float64
	algorithm  SpectrumExtractionAlgorithm
	valid      bool
}

// NewSpectrumExtraction creates an extractor. The FFT length must be
// a power of two and at least 4.
func NewSpectrumExtraction(fftLength, frameShift int, sampleRate float64, algorithm SpectrumExtractionAlgorithm) *SpectrumExtraction {
	e := &SpectrumExtraction{
		fftLength:  fftLength,
		frameShift: frameShift,
		sampleRate: sampleRate,
		algorithm:  algorithm,
	}
	e.valid = fftLength >= 4 && isPowerOfTwo(fftLength) &&
		frameShift > 0 && sampleRate > 0.0 &&
		algorithm >= 0 && algorithm < numSpectrumAlgorithms
	return e
}

// GetFFTLength returns the FFT length.
func (e *SpectrumExtraction) GetFFTLength() int {
	return e.fftLength
}

// GetFrameShift returns the frame shift in samples.
func (e *SpectrumExtraction) GetFrameShift() int {
	return e.frameShift
}

// GetAlgorithm returns the estimator variant.
func (e *SpectrumExtraction) GetAlgorithm() SpectrumExtractionAlgorithm {
	return e.algorithm
}

// IsValid reports whether the extractor configuration is usable.
func (e *SpectrumExtraction) IsValid() bool {
	return e.valid
}

// Run extracts one power spectrum per frame. f0 is a contour in Hz
// with 0 marking unvoiced frames; it is stretched or truncated to
// ceil(len(waveform)/frameShift) frames. The analysis window of a
// voiced frame spans three pitch periods.
func (e *SpectrumExtraction) Run(waveform, f0 []float64) ([][]float64, error) {
	if !e.valid {
		return nil, fmt.Errorf("spectrum extraction: invalid configuration")
	}
	if len(waveform) == 0 || len(f0) == 0 {
		return nil, fmt.Errorf("spectrum extraction: empty input")
	}
	if err := validateF0Range(f0, e.sampleRate); err != nil {
		return nil, fmt.Errorf("spectrum extraction: %w", err)
	}

	f0Floor := CheapTrickF0Floor(e.sampleRate, e.fftLength)
	for i, x := range f0 {
		if x > 0.0 && x < f0Floor {
			return nil, fmt.Errorf("spectrum extraction: f0 %g at frame %d is below the floor %g", x, i, f0Floor)
		}
	}

	numFrames := (len(waveform) + e.frameShift - 1) / e.frameShift
	contour := stretchContour(f0, numFrames)

	logging.Debug("extracting spectrum", logging.Fields{
		"algorithm":   e.algorithm.String(),
		"num_frames":  numFrames,
		"fft_length":  e.fftLength,
		"frame_shift": e.frameShift,
	})

	numBins := e.fftLength/2 + 1
	padded := make([]float64, e.fftLength)
	spectrum := make([][]float64, numFrames)

	for t := 0; t < numFrames; t++ {
		currentF0 := contour[t]
		windowLength := e.fftLength
		if currentF0 > 0.0 {
			windowLength = int(math.Round(3.0 * e.sampleRate / currentF0))
			if windowLength > e.fftLength {
				windowLength = e.fftLength
			}
		}

		window := windowing.NewStandardWindow(windowLength, windowing.Hanning, false)
		if !window.IsValid() {
			return nil, fmt.Errorf("spectrum extraction: window of length %d at frame %d", windowLength, t)
		}
		coefficients := window.GetCoefficients()
		windowPower := floats.Dot(coefficients, coefficients)

		frameAt(waveform, t*e.frameShift, padded[:windowLength])
		if err := window.ApplyInPlace(padded[:windowLength]); err != nil {
			return nil, fmt.Errorf("spectrum extraction: %w", err)
		}
		for i := windowLength; i < e.fftLength; i++ {
			padded[i] = 0.0
		}

		bins := fft.FFTReal(padded)
		output := make([]float64, numBins)
		for k := 0; k < numBins; k++ {
			re := real(bins[k])
			im := imag(bins[k])
			output[k] = (re*re + im*im) / windowPower
		}
		spectrum[t] = output
	}
	return spectrum, nil
}
