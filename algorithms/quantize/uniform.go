package quantize

import (
	"fmt"
	"math"
)

// QuantizationType selects the uniform quantizer layout.
type QuantizationType int

const (
	// MidRise uses 2^B levels; zero falls on a decision boundary.
	MidRise QuantizationType = iota
	// MidTread uses 2^B - 1 levels; zero is a reconstruction level.
	MidTread
)

// UniformQuantizer maps samples in [-V, V] to integer indices.
type UniformQuantizer struct {
	absoluteMax float64
	numBits     int
	qtype       QuantizationType
	levels      int
	stepSize    float64
	valid       bool
}

// NewUniformQuantizer creates a quantizer with full-scale value
// absoluteMax (V) and numBits bits per sample.
func NewUniformQuantizer(absoluteMax float64, numBits int, qtype QuantizationType) *UniformQuantizer {
	q := &UniformQuantizer{
		absoluteMax: absoluteMax,
		numBits:     numBits,
		qtype:       qtype,
		valid:       true,
	}
	if absoluteMax <= 0.0 || numBits <= 0 {
		q.valid = false
		return q
	}

	switch qtype {
	case MidRise:
		q.levels = 1 << numBits
	case MidTread:
		q.levels = (1 << numBits) - 1
	default:
		q.valid = false
		return q
	}
	q.stepSize = (2.0 * absoluteMax) / float64(q.levels)
	return q
}

// Levels returns the number of quantization levels.
func (q *UniformQuantizer) Levels() int {
	return q.levels
}

// StepSize returns the quantization step size.
func (q *UniformQuantizer) StepSize() float64 {
	return q.stepSize
}

// IsValid reports whether the quantizer configuration is usable.
func (q *UniformQuantizer) IsValid() bool {
	return q.valid
}

// Quantize maps one sample to its level index in [0, levels-1].
func (q *UniformQuantizer) Quantize(x float64) (int, error) {
	if !q.valid {
		return 0, fmt.Errorf("uniform quantizer: invalid configuration")
	}

	var index int
	switch q.qtype {
	case MidRise:
		index = int(math.Floor(x/q.stepSize)) + q.levels/2
	case MidTread:
		index = int(math.Round(x/q.stepSize)) + (q.levels-1)/2
	}

	if index < 0 {
		index = 0
	} else if index > q.levels-1 {
		index = q.levels - 1
	}
	return index, nil
}

// InverseUniformQuantizer maps level indices back to sample values.
type InverseUniformQuantizer struct {
	absoluteMax float64
	numBits     int
	qtype       QuantizationType
	levels      int
	stepSize    float64
	valid       bool
}

// NewInverseUniformQuantizer creates the inverse of the uniform
// quantizer with the same parameters.
func NewInverseUniformQuantizer(absoluteMax float64, numBits int, qtype QuantizationType) *InverseUniformQuantizer {
	q := NewUniformQuantizer(absoluteMax, numBits, qtype)
	return &InverseUniformQuantizer{
		absoluteMax: absoluteMax,
		numBits:     numBits,
		qtype:       qtype,
		levels:      q.levels,
		stepSize:    q.stepSize,
		valid:       q.valid,
	}
}

// Levels returns the number of quantization levels.
func (q *InverseUniformQuantizer) Levels() int {
	return q.levels
}

// IsValid reports whether the inverse quantizer configuration is usable.
func (q *InverseUniformQuantizer) IsValid() bool {
	return q.valid
}

// Dequantize maps one level index back to its reconstruction value,
// clipped to [-V, V].
func (q *InverseUniformQuantizer) Dequantize(index int) (float64, error) {
	if !q.valid {
		return 0, fmt.Errorf("inverse uniform quantizer: invalid configuration")
	}

	var value float64
	switch q.qtype {
	case MidRise:
		value = (float64(index) - float64(q.levels/2) + 0.5) * q.stepSize
	case MidTread:
		value = (float64(index) - float64((q.levels-1)/2)) * q.stepSize
	}

	if value < -q.absoluteMax {
		value = -q.absoluteMax
	} else if value > q.absoluteMax {
		value = q.absoluteMax
	}
	return value, nil
}
