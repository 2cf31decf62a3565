package quantize

import (
	"fmt"
)

// MultistageVectorQuantizer quantizes a vector in successive stages,
// each stage coding the residual left by the previous one.
type MultistageVectorQuantizer struct {
	order    int
	numStage int
	vq       *VectorQuantizer
	valid    bool
}

// MultistageVectorQuantizerBuffer holds the residual workspace so
// repeated calls do not reallocate.
type MultistageVectorQuantizerBuffer struct {
	QuantizationError []float64
}

// NewMultistageVectorQuantizer creates a quantizer for vectors of the
// given order using numStage codebooks.
func NewMultistageVectorQuantizer(order, numStage int) *MultistageVectorQuantizer {
	m := &MultistageVectorQuantizer{
		order:    order,
		numStage: numStage,
		vq:       NewVectorQuantizer(order),
	}
	m.valid = order >= 0 && numStage > 0 && m.vq.IsValid()
	return m
}

// Order returns the vector order.
func (m *MultistageVectorQuantizer) Order() int {
	return m.order
}

// NumStage returns the number of stages.
func (m *MultistageVectorQuantizer) NumStage() int {
	return m.numStage
}

// IsValid reports whether the quantizer configuration is usable.
func (m *MultistageVectorQuantizer) IsValid() bool {
	return m.valid
}

// Quantize codes input against one codebook per stage, writing one
// index per stage into indices.
func (m *MultistageVectorQuantizer) Quantize(input []float64, codebooks [][][]float64, indices []int, buffer *MultistageVectorQuantizerBuffer) error {
	if !m.valid {
		return fmt.Errorf("multistage vector quantizer: invalid configuration")
	}
	if buffer == nil {
		return fmt.Errorf("multistage vector quantizer: nil buffer")
	}
	if len(input) != m.order+1 {
		return fmt.Errorf("multistage vector quantizer: input length %d, expected %d", len(input), m.order+1)
	}
	if len(codebooks) != m.numStage {
		return fmt.Errorf("multistage vector quantizer: %d codebooks, expected %d", len(codebooks), m.numStage)
	}
	if len(indices) != m.numStage {
		return fmt.Errorf("multistage vector quantizer: indices length %d, expected %d", len(indices), m.numStage)
	}

	if len(buffer.QuantizationError) != m.order+1 {
		buffer.QuantizationError = make([]float64, m.order+1)
	}
	copy(buffer.QuantizationError, input)

	for stage := 0; stage < m.numStage; stage++ {
		index, err := m.vq.Quantize(buffer.QuantizationError, codebooks[stage])
		if err != nil {
			return fmt.Errorf("multistage vector quantizer: stage %d: %w", stage, err)
		}
		indices[stage] = index
		for j := 0; j <= m.order; j++ {
			buffer.QuantizationError[j] -= codebooks[stage][index][j]
		}
	}
	return nil
}

// InverseMultistageVectorQuantizer reconstructs a vector as the sum of
// per-stage codebook entries.
type InverseMultistageVectorQuantizer struct {
	order    int
	numStage int
	ivq      *InverseVectorQuantizer
	valid    bool
}

// InverseMultistageVectorQuantizerBuffer holds the per-stage lookup
// workspace.
type InverseMultistageVectorQuantizerBuffer struct {
	StageOutput []float64
}

// NewInverseMultistageVectorQuantizer creates the inverse of the
// multistage quantizer with the same parameters.
func NewInverseMultistageVectorQuantizer(order, numStage int) *InverseMultistageVectorQuantizer {
	m := &InverseMultistageVectorQuantizer{
		order:    order,
		numStage: numStage,
		ivq:      NewInverseVectorQuantizer(order),
	}
	m.valid = order >= 0 && numStage > 0 && m.ivq.IsValid()
	return m
}

// Order returns the vector order.
func (m *InverseMultistageVectorQuantizer) Order() int {
	return m.order
}

// NumStage returns the number of stages.
func (m *InverseMultistageVectorQuantizer) NumStage() int {
	return m.numStage
}

// IsValid reports whether the inverse quantizer configuration is usable.
func (m *InverseMultistageVectorQuantizer) IsValid() bool {
	return m.valid
}

// Dequantize sums the codebook vectors selected by indices into output.
func (m *InverseMultistageVectorQuantizer) Dequantize(indices []int, codebooks [][][]float64, output []float64, buffer *InverseMultistageVectorQuantizerBuffer) error {
	if !m.valid {
		return fmt.Errorf("inverse multistage vector quantizer: invalid configuration")
	}
	if buffer == nil {
		return fmt.Errorf("inverse multistage vector quantizer: nil buffer")
	}
	if len(indices) != m.numStage {
		return fmt.Errorf("inverse multistage vector quantizer: indices length %d, expected %d", len(indices), m.numStage)
	}
	if len(codebooks) != m.numStage {
		return fmt.Errorf("inverse multistage vector quantizer: %d codebooks, expected %d", len(codebooks), m.numStage)
	}
	if len(output) != m.order+1 {
		return fmt.Errorf("inverse multistage vector quantizer: output length %d, expected %d", len(output), m.order+1)
	}

	if len(buffer.StageOutput) != m.order+1 {
		buffer.StageOutput = make([]float64, m.order+1)
	}

	for j := range output {
		output[j] = 0.0
	}
	for stage := 0; stage < m.numStage; stage++ {
		if err := m.ivq.Dequantize(indices[stage], codebooks[stage], buffer.StageOutput); err != nil {
			return fmt.Errorf("inverse multistage vector quantizer: stage %d: %w", stage, err)
		}
		for j := 0; j <= m.order; j++ {
			output[j] += buffer.StageOutput[j]
		}
	}
	return nil
}
