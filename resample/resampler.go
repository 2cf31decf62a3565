package resample

import (
	"fmt"
	"math"

	"github.com/sonidolab/cepstra/logging"
)

// MaxRatio bounds the conversion ratio in either direction.
const MaxRatio = 256.0

// Algorithm selects a conversion engine profile. All profiles share
// the windowed-sinc polyphase engine; they differ in quality range
// and in the filter length and attenuation each quality level maps to.
type Algorithm int

const (
	// AlgorithmSRC mirrors the libsamplerate profile, quality 0-4.
	AlgorithmSRC Algorithm = iota
	// AlgorithmSpeex mirrors the SpeexDSP profile, quality 0-10.
	AlgorithmSpeex
	// AlgorithmR8Brain mirrors the r8brain profile, quality 0-2.
	AlgorithmR8Brain

	numAlgorithms
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmSRC:
		return "src"
	case AlgorithmSpeex:
		return "speex"
	case AlgorithmR8Brain:
		return "r8brain"
	default:
		return "unknown"
	}
}

// QualityRange returns the inclusive quality bounds of the profile.
func (a Algorithm) QualityRange() (int, int) {
	switch a {
	case AlgorithmSRC:
		return 0, 4
	case AlgorithmSpeex:
		return 0, 10
	case AlgorithmR8Brain:
		return 0, 2
	default:
		return 0, -1
	}
}

// filterProfile maps an algorithm and quality level to filter design
// parameters.
func filterProfile(algorithm Algorithm, quality int) (tapsPerPhase int, attenuation float64) {
	switch algorithm {
	case AlgorithmSRC:
		return 16 + 16*quality, 60.0 + 15.0*float64(quality)
	case AlgorithmSpeex:
		return 8 + 8*quality, 40.0 + 10.0*float64(quality)
	default:
		return 64 + 32*quality, 100.0 + 30.0*float64(quality)
	}
}

// channelState carries the streaming history of one channel. buf
// holds past samples still needed by the kernel; position is the
// fractional read index within buf.
type channelState struct {
	buf      []float64
	position float64
}

// Resampler converts a stream of interleaved frames from one
// sampling rate to another. Each Get call accepts up to bufferLength
// frames and produces zero or more output frames; history is carried
// across calls.
type Resampler struct {
	inputRate    float64
	outputRate   float64
	numChannels  int
	bufferLength int
	quality      int
	algorithm    Algorithm
	step         float64
	filter       *interpolationFilter
	channels     []channelState
	valid        bool
}

// NewResampler creates a resampler. numChannels is the number of
// interleaved channels per frame and bufferLength the maximum number
// of frames per Get call.
func NewResampler(inputRate, outputRate float64, numChannels, bufferLength, quality int, algorithm Algorithm) *Resampler {
	r := &Resampler{
		inputRate:    inputRate,
		outputRate:   outputRate,
		numChannels:  numChannels,
		bufferLength: bufferLength,
		quality:      quality,
		algorithm:    algorithm,
	}
	if inputRate <= 0.0 || outputRate <= 0.0 ||
		outputRate/inputRate > MaxRatio || inputRate/outputRate > MaxRatio ||
		numChannels <= 0 || bufferLength <= 0 ||
		algorithm < 0 || algorithm >= numAlgorithms {
		return r
	}
	minQuality, maxQuality := algorithm.QualityRange()
	if quality < minQuality || quality > maxQuality {
		return r
	}

	ratio := outputRate / inputRate
	cutoff := 0.5
	if ratio < 1.0 {
		cutoff = 0.5 * ratio
	}
	tapsPerPhase, attenuation := filterProfile(algorithm, quality)
	filter, err := designInterpolationFilter(tapsPerPhase, cutoff, attenuation)
	if err != nil {
		logging.Error(err, "resampler filter design failed", logging.Fields{
			"algorithm": algorithm.String(),
			"quality":   quality,
		})
		return r
	}

	r.step = inputRate / outputRate
	r.filter = filter
	r.channels = make([]channelState, numChannels)
	r.valid = true
	r.Clear()
	return r
}

// GetInputRate returns the input sampling rate in Hz.
func (r *Resampler) GetInputRate() float64 {
	return r.inputRate
}

// GetOutputRate returns the output sampling rate in Hz.
func (r *Resampler) GetOutputRate() float64 {
	return r.outputRate
}

// GetNumChannels returns the number of interleaved channels.
func (r *Resampler) GetNumChannels() int {
	return r.numChannels
}

// GetAlgorithm returns the engine profile.
func (r *Resampler) GetAlgorithm() Algorithm {
	return r.algorithm
}

// IsValid reports whether the resampler configuration is usable.
func (r *Resampler) IsValid() bool {
	return r.valid
}

// GetLatency returns the algorithmic delay in input frames. The
// kernel is centered, so this is half the filter span.
func (r *Resampler) GetLatency() int {
	if !r.valid {
		return 0
	}
	return r.filter.halfTaps
}

// Clear drops all carried history and restarts the stream.
func (r *Resampler) Clear() {
	if !r.valid {
		return
	}
	padding := r.filter.halfTaps - 1
	for c := range r.channels {
		r.channels[c].buf = make([]float64, padding)
		r.channels[c].position = float64(padding)
	}
}

// Get consumes a block of up to bufferLength interleaved frames and
// returns the interleaved frames the conversion produced. The input
// length must be a multiple of the channel count.
func (r *Resampler) Get(inputs []float64) ([]float64, error) {
	if !r.valid {
		return nil, fmt.Errorf("resampler: invalid configuration")
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("resampler: empty input")
	}
	if len(inputs)%r.numChannels != 0 {
		return nil, fmt.Errorf("resampler: input length %d is not a multiple of %d channels", len(inputs), r.numChannels)
	}
	numInputFrames := len(inputs) / r.numChannels
	if numInputFrames > r.bufferLength {
		return nil, fmt.Errorf("resampler: %d frames exceed the buffer length %d", numInputFrames, r.bufferLength)
	}

	for c := range r.channels {
		state := &r.channels[c]
		for i := 0; i < numInputFrames; i++ {
			state.buf = append(state.buf, inputs[i*r.numChannels+c])
		}
	}

	// All channels share the same clock, so the first channel
	// decides how many frames come out.
	numOutputFrames := r.countAvailable(&r.channels[0])
	outputs := make([]float64, numOutputFrames*r.numChannels)
	for c := range r.channels {
		state := &r.channels[c]
		for k := 0; k < numOutputFrames; k++ {
			base := int(math.Floor(state.position))
			frac := state.position - float64(base)
			outputs[k*r.numChannels+c] = r.filter.interpolate(state.buf, base, frac)
			state.position += r.step
		}
		r.trim(state)
	}

	logging.Debug("resampled block", logging.Fields{
		"algorithm":     r.algorithm.String(),
		"input_frames":  numInputFrames,
		"output_frames": numOutputFrames,
	})
	return outputs, nil
}

// countAvailable returns how many output frames the buffered samples
// of a channel can support.
func (r *Resampler) countAvailable(state *channelState) int {
	count := 0
	position := state.position
	for {
		base := int(math.Floor(position))
		if base+r.filter.halfTaps > len(state.buf)-1 {
			break
		}
		count++
		position += r.step
	}
	return count
}

// trim discards samples the kernel can no longer reach.
func (r *Resampler) trim(state *channelState) {
	keepFrom := int(math.Floor(state.position)) - r.filter.halfTaps + 1
	if keepFrom <= 0 {
		return
	}
	if keepFrom > len(state.buf) {
		keepFrom = len(state.buf)
	}
	state.buf = append(state.buf[:0], state.buf[keepFrom:]...)
	state.position -= float64(keepFrom)
}

// VectorResampler runs one scalar resampler per channel over
// channel-split data instead of interleaved frames.
type VectorResampler struct {
	resamplers []*Resampler
	valid      bool
}

// NewVectorResampler creates a per-channel wrapper with numChannels
// independent scalar resamplers.
func NewVectorResampler(inputRate, outputRate float64, numChannels, bufferLength, quality int, algorithm Algorithm) *VectorResampler {
	v := &VectorResampler{}
	if numChannels <= 0 {
		return v
	}
	v.resamplers = make([]*Resampler, numChannels)
	v.valid = true
	for c := range v.resamplers {
		v.resamplers[c] = NewResampler(inputRate, outputRate, 1, bufferLength, quality, algorithm)
		if !v.resamplers[c].IsValid() {
			v.valid = false
		}
	}
	return v
}

// IsValid reports whether every per-channel resampler is usable.
func (v *VectorResampler) IsValid() bool {
	return v.valid
}

// Clear restarts every channel stream.
func (v *VectorResampler) Clear() {
	for _, r := range v.resamplers {
		r.Clear()
	}
}

// GetLatency returns the algorithmic delay in input frames.
func (v *VectorResampler) GetLatency() int {
	if !v.valid || len(v.resamplers) == 0 {
		return 0
	}
	return v.resamplers[0].GetLatency()
}

// Get converts channel-split input blocks. Every channel must carry
// the same number of samples.
func (v *VectorResampler) Get(inputs [][]float64) ([][]float64, error) {
	if !v.valid {
		return nil, fmt.Errorf("vector resampler: invalid configuration")
	}
	if len(inputs) != len(v.resamplers) {
		return nil, fmt.Errorf("vector resampler: %d input channels, want %d", len(inputs), len(v.resamplers))
	}
	for c := 1; c < len(inputs); c++ {
		if len(inputs[c]) != len(inputs[0]) {
			return nil, fmt.Errorf("vector resampler: channel lengths differ")
		}
	}

	outputs := make([][]float64, len(inputs))
	for c, r := range v.resamplers {
		output, err := r.Get(inputs[c])
		if err != nil {
			return nil, err
		}
		outputs[c] = output
	}
	return outputs, nil
}
