package quantize

import (
	"fmt"
	"math"
)

// VectorQuantizer finds the nearest codebook entry for an input vector
// under squared Euclidean distance.
type VectorQuantizer struct {
	order int
	valid bool
}

// NewVectorQuantizer creates a quantizer for vectors of the given order
// (length order+1).
func NewVectorQuantizer(order int) *VectorQuantizer {
	return &VectorQuantizer{
		order: order,
		valid: order >= 0,
	}
}

// Order returns the vector order.
func (v *VectorQuantizer) Order() int {
	return v.order
}

// IsValid reports whether the quantizer configuration is usable.
func (v *VectorQuantizer) IsValid() bool {
	return v.valid
}

// Quantize returns the index of the codebook vector closest to input.
// Ties resolve to the lowest index.
func (v *VectorQuantizer) Quantize(input []float64, codebook [][]float64) (int, error) {
	if !v.valid {
		return 0, fmt.Errorf("vector quantizer: invalid configuration")
	}
	if len(input) != v.order+1 {
		return 0, fmt.Errorf("vector quantizer: input length %d, expected %d", len(input), v.order+1)
	}
	if len(codebook) == 0 {
		return 0, fmt.Errorf("vector quantizer: empty codebook")
	}

	bestIndex := 0
	bestDistance := math.Inf(1)
	for i, code := range codebook {
		if len(code) != v.order+1 {
			return 0, fmt.Errorf("vector quantizer: codebook row %d has length %d, expected %d", i, len(code), v.order+1)
		}
		distance := 0.0
		for j := range input {
			diff := input[j] - code[j]
			distance += diff * diff
		}
		if distance < bestDistance {
			bestDistance = distance
			bestIndex = i
		}
	}
	return bestIndex, nil
}

// InverseVectorQuantizer looks up a codebook vector by index.
type InverseVectorQuantizer struct {
	order int
	valid bool
}

// NewInverseVectorQuantizer creates the inverse quantizer for vectors
// of the given order.
func NewInverseVectorQuantizer(order int) *InverseVectorQuantizer {
	return &InverseVectorQuantizer{
		order: order,
		valid: order >= 0,
	}
}

// Order returns the vector order.
func (v *InverseVectorQuantizer) Order() int {
	return v.order
}

// IsValid reports whether the inverse quantizer configuration is usable.
func (v *InverseVectorQuantizer) IsValid() bool {
	return v.valid
}

// Dequantize copies the codebook vector at index into output.
func (v *InverseVectorQuantizer) Dequantize(index int, codebook [][]float64, output []float64) error {
	if !v.valid {
		return fmt.Errorf("inverse vector quantizer: invalid configuration")
	}
	if index < 0 || index >= len(codebook) {
		return fmt.Errorf("inverse vector quantizer: index %d out of range [0, %d)", index, len(codebook))
	}
	if len(codebook[index]) != v.order+1 {
		return fmt.Errorf("inverse vector quantizer: codebook row %d has length %d, expected %d", index, len(codebook[index]), v.order+1)
	}
	if len(output) != v.order+1 {
		return fmt.Errorf("inverse vector quantizer: output length %d, expected %d", len(output), v.order+1)
	}
	copy(output, codebook[index])
	return nil
}
