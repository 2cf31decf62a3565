package vocoder

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/sonidolab/cepstra/algorithms/windowing"
	"github.com/sonidolab/cepstra/logging"
)

// DefaultUnvoicedF0 substitutes for unvoiced frames during
// aperiodicity extraction, which needs a working harmonic spacing
// even where no pitch was detected.
const DefaultUnvoicedF0 = 150.0

const (
	aperiodicityLowerBound = 1e-3
	aperiodicityUpperBound = 1.0 - aperiodicityLowerBound
)

// AperiodicityExtractionAlgorithm selects the band-aperiodicity
// estimator variant.
type AperiodicityExtractionAlgorithm int

const (
	// AperiodicityTandemStraight follows the TANDEM-STRAIGHT
	// estimator with a data-derived noise floor.
	AperiodicityTandemStraight AperiodicityExtractionAlgorithm = iota
	// AperiodicityWorldD4C follows the WORLD D4C estimator.
	AperiodicityWorldD4C

	numAperiodicityAlgorithms
)

func (a AperiodicityExtractionAlgorithm) String() string {
	switch a {
	case AperiodicityTandemStraight:
		return "tandem-straight"
	case AperiodicityWorldD4C:
		return "world-d4c"
	default:
		return "unknown"
	}
}

// AperiodicityExtraction estimates per-band aperiodicity from a
// waveform and its F0 contour. Each output frame holds fftLength/2+1
// values in [1e-3, 1-1e-3], where 1 means fully aperiodic.
type AperiodicityExtraction struct {
	fftLength  int
	frameShift int
	sampleRate float64
	algorithm  AperiodicityExtractionAlgorithm
	window     *windowing.StandardWindow
	valid      bool
}

// NewAperiodicityExtraction creates an extractor. The frame shift is
// in samples and the sampling rate in Hz.
func NewAperiodicityExtraction(fftLength, frameShift int, sampleRate float64, algorithm AperiodicityExtractionAlgorithm) *AperiodicityExtraction {
	e := &AperiodicityExtraction{
		fftLength:  fftLength,
		frameShift: frameShift,
		sampleRate: sampleRate,
		algorithm:  algorithm,
	}
	if fftLength <= 0 || frameShift <= 0 || sampleRate <= 0.0 ||
		algorithm < 0 || algorithm >= numAperiodicityAlgorithms {
		return e
	}
	e.window = windowing.NewStandardWindow(fftLength, windowing.Hanning, false)
	e.valid = e.window.IsValid()
	return e
}

// GetFFTLength returns the FFT length.
func (e *AperiodicityExtraction) GetFFTLength() int {
	return e.fftLength
}

// GetFrameShift returns the frame shift in samples.
func (e *AperiodicityExtraction) GetFrameShift() int {
	return e.frameShift
}

// GetAlgorithm returns the estimator variant.
func (e *AperiodicityExtraction) GetAlgorithm() AperiodicityExtractionAlgorithm {
	return e.algorithm
}

// IsValid reports whether the extractor configuration is usable.
func (e *AperiodicityExtraction) IsValid() bool {
	return e.valid
}

// Run extracts one aperiodicity spectrum per frame. f0 is a contour
// in Hz with 0 marking unvoiced frames; it is stretched or truncated
// to ceil(len(waveform)/frameShift) frames.
func (e *AperiodicityExtraction) Run(waveform, f0 []float64) ([][]float64, error) {
	if !e.valid {
		return nil, fmt.Errorf("aperiodicity extraction: invalid configuration")
	}
	if len(waveform) == 0 || len(f0) == 0 {
		return nil, fmt.Errorf("aperiodicity extraction: empty input")
	}
	if err := validateF0Range(f0, e.sampleRate); err != nil {
		return nil, fmt.Errorf("aperiodicity extraction: %w", err)
	}

	numFrames := (len(waveform) + e.frameShift - 1) / e.frameShift
	contour := stretchContour(f0, numFrames)

	logging.Debug("extracting aperiodicity", logging.Fields{
		"algorithm":   e.algorithm.String(),
		"num_frames":  numFrames,
		"fft_length":  e.fftLength,
		"frame_shift": e.frameShift,
	})

	// The envelope span is a fraction of the harmonic spacing. The
	// D4C variant probes a full harmonic interval while the
	// TANDEM-STRAIGHT variant stays within half of it.
	spanFraction := 0.5
	if e.algorithm == AperiodicityWorldD4C {
		spanFraction = 1.0
	}

	numBands := e.fftLength/2 + 1
	frame := make([]float64, e.fftLength)
	power := make([]float64, numBands)
	aperiodicity := make([][]float64, numFrames)

	for t := 0; t < numFrames; t++ {
		output := make([]float64, numBands)
		aperiodicity[t] = output

		currentF0 := contour[t]
		if currentF0 <= 0.0 {
			for k := range output {
				output[k] = aperiodicityUpperBound
			}
			continue
		}

		frameAt(waveform, t*e.frameShift, frame)
		if err := e.window.ApplyInPlace(frame); err != nil {
			return nil, fmt.Errorf("aperiodicity extraction: %w", err)
		}
		spectrum := fft.FFTReal(frame)
		for k := 0; k < numBands; k++ {
			re := real(spectrum[k])
			im := imag(spectrum[k])
			power[k] = re*re + im*im
		}

		harmonicSpacing := currentF0 * float64(e.fftLength) / e.sampleRate
		span := int(math.Round(spanFraction * harmonicSpacing))
		if span < 1 {
			span = 1
		}

		for k := 0; k < numBands; k++ {
			lo := k - span
			if lo < 0 {
				lo = 0
			}
			hi := k + span
			if hi >= numBands {
				hi = numBands - 1
			}
			floor := power[lo]
			peak := power[lo]
			for j := lo + 1; j <= hi; j++ {
				if power[j] < floor {
					floor = power[j]
				}
				if power[j] > peak {
					peak = power[j]
				}
			}
			a := aperiodicityUpperBound
			if peak > 0.0 {
				a = math.Sqrt(floor / peak)
			}
			output[k] = math.Min(aperiodicityUpperBound, math.Max(aperiodicityLowerBound, a))
		}
	}
	return aperiodicity, nil
}
