package cepstral

import (
	"fmt"
	"math"
)

// MelCepstrumToMLSAFilterCoefficients converts mel-cepstral
// coefficients c(0)..c(M) into MLSA filter coefficients b(0)..b(M).
//
// The recursion is:
// b(M) = c(M), b(m) = c(m) - α b(m+1)
type MelCepstrumToMLSAFilterCoefficients struct {
	numOrder int
	alpha    float64
	valid    bool
}

// NewMelCepstrumToMLSAFilterCoefficients creates a converter of order
// numOrder with all-pass constant alpha, |alpha| < 1.
func NewMelCepstrumToMLSAFilterCoefficients(numOrder int, alpha float64) *MelCepstrumToMLSAFilterCoefficients {
	return &MelCepstrumToMLSAFilterCoefficients{
		numOrder: numOrder,
		alpha:    alpha,
		valid:    numOrder >= 0 && math.Abs(alpha) < 1.0,
	}
}

// GetNumOrder returns the coefficient order.
func (c *MelCepstrumToMLSAFilterCoefficients) GetNumOrder() int {
	return c.numOrder
}

// GetAlpha returns the all-pass constant.
func (c *MelCepstrumToMLSAFilterCoefficients) GetAlpha() float64 {
	return c.alpha
}

// IsValid reports whether the converter configuration is usable.
func (c *MelCepstrumToMLSAFilterCoefficients) IsValid() bool {
	return c.valid
}

// Run converts melCepstrum into filterCoefficients. The slices may
// alias.
func (c *MelCepstrumToMLSAFilterCoefficients) Run(melCepstrum, filterCoefficients []float64) error {
	if !c.valid {
		return fmt.Errorf("mel-cepstrum to mlsa coefficients: invalid configuration")
	}
	if len(melCepstrum) != c.numOrder+1 || len(filterCoefficients) != c.numOrder+1 {
		return fmt.Errorf("mel-cepstrum to mlsa coefficients: length mismatch")
	}

	if c.alpha == 0.0 {
		copy(filterCoefficients, melCepstrum)
		return nil
	}

	filterCoefficients[c.numOrder] = melCepstrum[c.numOrder]
	for m := c.numOrder - 1; m >= 0; m-- {
		filterCoefficients[m] = melCepstrum[m] - c.alpha*filterCoefficients[m+1]
	}
	return nil
}

// MLSAFilterCoefficientsToMelCepstrum is the inverse conversion:
// c(M) = b(M), c(m) = b(m) + α b(m+1)
type MLSAFilterCoefficientsToMelCepstrum struct {
	numOrder int
	alpha    float64
	valid    bool
}

// NewMLSAFilterCoefficientsToMelCepstrum creates the inverse converter.
func NewMLSAFilterCoefficientsToMelCepstrum(numOrder int, alpha float64) *MLSAFilterCoefficientsToMelCepstrum {
	return &MLSAFilterCoefficientsToMelCepstrum{
		numOrder: numOrder,
		alpha:    alpha,
		valid:    numOrder >= 0 && math.Abs(alpha) < 1.0,
	}
}

// GetNumOrder returns the coefficient order.
func (c *MLSAFilterCoefficientsToMelCepstrum) GetNumOrder() int {
	return c.numOrder
}

// GetAlpha returns the all-pass constant.
func (c *MLSAFilterCoefficientsToMelCepstrum) GetAlpha() float64 {
	return c.alpha
}

// IsValid reports whether the converter configuration is usable.
func (c *MLSAFilterCoefficientsToMelCepstrum) IsValid() bool {
	return c.valid
}

// Run converts filterCoefficients into melCepstrum. The slices may
// alias.
func (c *MLSAFilterCoefficientsToMelCepstrum) Run(filterCoefficients, melCepstrum []float64) error {
	if !c.valid {
		return fmt.Errorf("mlsa coefficients to mel-cepstrum: invalid configuration")
	}
	if len(filterCoefficients) != c.numOrder+1 || len(melCepstrum) != c.numOrder+1 {
		return fmt.Errorf("mlsa coefficients to mel-cepstrum: length mismatch")
	}

	if c.alpha == 0.0 {
		copy(melCepstrum, filterCoefficients)
		return nil
	}

	// Keep the unmodified b(m+1) in hand so aliased slices still see
	// the original input.
	next := filterCoefficients[c.numOrder]
	melCepstrum[c.numOrder] = next
	for m := c.numOrder - 1; m >= 0; m-- {
		current := filterCoefficients[m]
		melCepstrum[m] = current + c.alpha*next
		next = current
	}
	return nil
}

// GeneralizedCepstrumGainNormalization normalizes a generalized
// cepstrum so the gain is carried in the zeroth coefficient as K.
type GeneralizedCepstrumGainNormalization struct {
	numOrder int
	gamma    float64
	valid    bool
}

// NewGeneralizedCepstrumGainNormalization creates a normalizer with
// power parameter gamma, |gamma| <= 1.
func NewGeneralizedCepstrumGainNormalization(numOrder int, gamma float64) *GeneralizedCepstrumGainNormalization {
	return &GeneralizedCepstrumGainNormalization{
		numOrder: numOrder,
		gamma:    gamma,
		valid:    numOrder >= 0 && math.Abs(gamma) <= 1.0,
	}
}

// GetNumOrder returns the coefficient order.
func (g *GeneralizedCepstrumGainNormalization) GetNumOrder() int {
	return g.numOrder
}

// GetGamma returns the power parameter.
func (g *GeneralizedCepstrumGainNormalization) GetGamma() float64 {
	return g.gamma
}

// IsValid reports whether the normalizer configuration is usable.
func (g *GeneralizedCepstrumGainNormalization) IsValid() bool {
	return g.valid
}

// Run normalizes input into output. The slices may alias.
func (g *GeneralizedCepstrumGainNormalization) Run(input, output []float64) error {
	if !g.valid {
		return fmt.Errorf("gain normalization: invalid configuration")
	}
	if len(input) != g.numOrder+1 || len(output) != g.numOrder+1 {
		return fmt.Errorf("gain normalization: length mismatch")
	}

	if g.gamma == 0.0 {
		output[0] = math.Exp(input[0])
		copy(output[1:], input[1:])
		return nil
	}

	z := 1.0 + g.gamma*input[0]
	output[0] = math.Pow(z, 1.0/g.gamma)
	for m := 1; m <= g.numOrder; m++ {
		output[m] = input[m] / z
	}
	return nil
}

// GeneralizedCepstrumInverseGainNormalization folds the gain K back
// into the zeroth cepstral coefficient.
type GeneralizedCepstrumInverseGainNormalization struct {
	numOrder int
	gamma    float64
	valid    bool
}

// NewGeneralizedCepstrumInverseGainNormalization creates the inverse
// normalizer.
func NewGeneralizedCepstrumInverseGainNormalization(numOrder int, gamma float64) *GeneralizedCepstrumInverseGainNormalization {
	return &GeneralizedCepstrumInverseGainNormalization{
		numOrder: numOrder,
		gamma:    gamma,
		valid:    numOrder >= 0 && math.Abs(gamma) <= 1.0,
	}
}

// GetNumOrder returns the coefficient order.
func (g *GeneralizedCepstrumInverseGainNormalization) GetNumOrder() int {
	return g.numOrder
}

// GetGamma returns the power parameter.
func (g *GeneralizedCepstrumInverseGainNormalization) GetGamma() float64 {
	return g.gamma
}

// IsValid reports whether the normalizer configuration is usable.
func (g *GeneralizedCepstrumInverseGainNormalization) IsValid() bool {
	return g.valid
}

// Run denormalizes input into output. The slices may alias.
func (g *GeneralizedCepstrumInverseGainNormalization) Run(input, output []float64) error {
	if !g.valid {
		return fmt.Errorf("inverse gain normalization: invalid configuration")
	}
	if len(input) != g.numOrder+1 || len(output) != g.numOrder+1 {
		return fmt.Errorf("inverse gain normalization: length mismatch")
	}

	if g.gamma == 0.0 {
		output[0] = math.Log(input[0])
		copy(output[1:], input[1:])
		return nil
	}

	z := math.Pow(input[0], g.gamma)
	output[0] = (z - 1.0) / g.gamma
	for m := 1; m <= g.numOrder; m++ {
		output[m] = input[m] * z
	}
	return nil
}
