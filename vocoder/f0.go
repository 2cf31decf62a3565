package vocoder

import (
	"fmt"
	"math"
)

// LogZero is the magic number representing an unvoiced frame in a
// log-F0 contour. In pitch and F0 contours the unvoiced marker is 0.
const LogZero = -1.0e+10

// F0Format identifies how an F0 contour is encoded.
type F0Format int

const (
	// F0FormatPitch encodes each frame as Fs/F0 in samples.
	F0FormatPitch F0Format = iota
	// F0FormatHertz encodes each frame as F0 in Hz.
	F0FormatHertz
	// F0FormatLogHertz encodes each frame as the natural log of F0.
	F0FormatLogHertz
)

func (f F0Format) String() string {
	switch f {
	case F0FormatPitch:
		return "pitch"
	case F0FormatHertz:
		return "hertz"
	case F0FormatLogHertz:
		return "log-hertz"
	default:
		return "unknown"
	}
}

// ConvertF0ToHertz converts an F0 contour from the given format into
// Hz. Unvoiced frames (0 for pitch and Hz contours, LogZero for log
// contours) are replaced with unvoicedHertz, which may be 0 to keep
// the unvoiced marker.
func ConvertF0ToHertz(f0 []float64, format F0Format, sampleRate, unvoicedHertz float64) ([]float64, error) {
	if sampleRate <= 0.0 {
		return nil, fmt.Errorf("f0 conversion: sample rate must be positive")
	}

	output := make([]float64, len(f0))
	switch format {
	case F0FormatPitch:
		for i, x := range f0 {
			if x == 0.0 {
				output[i] = unvoicedHertz
			} else {
				output[i] = sampleRate / x
			}
		}
	case F0FormatHertz:
		for i, x := range f0 {
			if x == 0.0 {
				output[i] = unvoicedHertz
			} else {
				output[i] = x
			}
		}
	case F0FormatLogHertz:
		for i, x := range f0 {
			if x == LogZero {
				output[i] = unvoicedHertz
			} else {
				output[i] = math.Exp(x)
			}
		}
	default:
		return nil, fmt.Errorf("f0 conversion: unknown format %d", format)
	}
	return output, nil
}

// stretchContour resamples an F0 contour to numFrames entries by
// nearest-index mapping. A short contour is stretched and a long one
// truncated so each analysis frame has an F0 value.
func stretchContour(f0 []float64, numFrames int) []float64 {
	output := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		j := i * len(f0) / numFrames
		output[i] = f0[j]
	}
	return output
}

// validateF0Range rejects contours with negative frequencies or
// frequencies above the Nyquist limit. Zero marks unvoiced frames
// and is always accepted.
func validateF0Range(f0 []float64, sampleRate float64) error {
	nyquist := 0.5 * sampleRate
	for i, x := range f0 {
		if x < 0.0 {
			return fmt.Errorf("f0 contour: negative frequency %g at frame %d", x, i)
		}
		if x > nyquist {
			return fmt.Errorf("f0 contour: frequency %g at frame %d exceeds the Nyquist limit %g", x, i, nyquist)
		}
	}
	return nil
}

// frameAt copies a segment of waveform centered at the given sample
// into frame, zero-padding where the segment runs past either end.
func frameAt(waveform []float64, center int, frame []float64) {
	half := len(frame) / 2
	for i := range frame {
		j := center - half + i
		if j < 0 || j >= len(waveform) {
			frame[i] = 0.0
		} else {
			frame[i] = waveform[j]
		}
	}
}
