package lpc

import (
	"fmt"
	"math"
)

// LPCToParcorCoefficients converts linear predictive coefficients into
// PARCOR (reflection) coefficients by the backward Levinson recursion.
// The optional gamma scales the inner coefficients first, which lets
// the same recursion serve normalized generalized cepstra.
type LPCToParcorCoefficients struct {
	numOrder int
	gamma    float64
	valid    bool
}

// LPCToParcorCoefficientsBuffer holds the recursion workspace.
type LPCToParcorCoefficientsBuffer struct {
	a []float64
}

// NewLPCToParcorCoefficients creates a converter of order numOrder
// with scale gamma, |gamma| <= 1.
func NewLPCToParcorCoefficients(numOrder int, gamma float64) *LPCToParcorCoefficients {
	return &LPCToParcorCoefficients{
		numOrder: numOrder,
		gamma:    gamma,
		valid:    numOrder >= 0 && math.Abs(gamma) <= 1.0,
	}
}

// GetNumOrder returns the coefficient order.
func (c *LPCToParcorCoefficients) GetNumOrder() int {
	return c.numOrder
}

// GetGamma returns the scale parameter.
func (c *LPCToParcorCoefficients) GetGamma() float64 {
	return c.gamma
}

// IsValid reports whether the converter configuration is usable.
func (c *LPCToParcorCoefficients) IsValid() bool {
	return c.valid
}

// Run converts lpc (gain at index 0) into parcor, reporting whether
// the coefficients describe a stable synthesis filter.
func (c *LPCToParcorCoefficients) Run(lpc, parcor []float64, buffer *LPCToParcorCoefficientsBuffer) (bool, error) {
	if !c.valid {
		return false, fmt.Errorf("lpc to parcor: invalid configuration")
	}
	if len(lpc) != c.numOrder+1 || len(parcor) != c.numOrder+1 {
		return false, fmt.Errorf("lpc to parcor: length mismatch")
	}
	if buffer == nil {
		return false, fmt.Errorf("lpc to parcor: nil buffer")
	}
	if len(buffer.a) != c.numOrder+1 {
		buffer.a = make([]float64, c.numOrder+1)
	}

	stable := true
	parcor[0] = lpc[0]
	if c.numOrder == 0 {
		return stable, nil
	}

	if c.gamma == 1.0 {
		copy(buffer.a, lpc)
	} else {
		for m := 1; m <= c.numOrder; m++ {
			buffer.a[m] = lpc[m] * c.gamma
		}
	}

	a := buffer.a
	k := parcor
	for i := c.numOrder; i >= 1; i-- {
		for m := 1; m <= i; m++ {
			k[m] = a[m]
		}
		denominator := 1.0 - k[i]*k[i]
		if denominator == 0.0 {
			return false, fmt.Errorf("lpc to parcor: zero denominator at order %d", i)
		}
		if math.Abs(k[i]) >= 1.0 {
			stable = false
		}
		for m := 1; m < i; m++ {
			a[m] = (k[m] - k[i]*k[i-m]) / denominator
		}
	}
	return stable, nil
}

// ParcorToLPCCoefficients is the forward Levinson recursion from
// PARCOR coefficients back to linear predictive coefficients.
type ParcorToLPCCoefficients struct {
	numOrder int
	valid    bool
}

// ParcorToLPCCoefficientsBuffer holds the recursion workspace.
type ParcorToLPCCoefficientsBuffer struct {
	k []float64
}

// NewParcorToLPCCoefficients creates the inverse converter.
func NewParcorToLPCCoefficients(numOrder int) *ParcorToLPCCoefficients {
	return &ParcorToLPCCoefficients{
		numOrder: numOrder,
		valid:    numOrder >= 0,
	}
}

// GetNumOrder returns the coefficient order.
func (c *ParcorToLPCCoefficients) GetNumOrder() int {
	return c.numOrder
}

// IsValid reports whether the converter configuration is usable.
func (c *ParcorToLPCCoefficients) IsValid() bool {
	return c.valid
}

// Run converts parcor (gain at index 0) into lpc.
func (c *ParcorToLPCCoefficients) Run(parcor, lpc []float64, buffer *ParcorToLPCCoefficientsBuffer) error {
	if !c.valid {
		return fmt.Errorf("parcor to lpc: invalid configuration")
	}
	if len(parcor) != c.numOrder+1 || len(lpc) != c.numOrder+1 {
		return fmt.Errorf("parcor to lpc: length mismatch")
	}
	if buffer == nil {
		return fmt.Errorf("parcor to lpc: nil buffer")
	}

	lpc[0] = parcor[0]
	if c.numOrder == 0 {
		return nil
	}

	if len(buffer.k) != c.numOrder+1 {
		buffer.k = make([]float64, c.numOrder+1)
	}
	copy(buffer.k, parcor)

	k := buffer.k
	for i := 1; i <= c.numOrder; i++ {
		for j := 1; j < i; j++ {
			lpc[j] = k[j] + k[i]*k[i-j]
		}
		for j := 1; j < i; j++ {
			k[j] = lpc[j]
		}
	}
	lpc[c.numOrder] = k[c.numOrder]
	return nil
}
