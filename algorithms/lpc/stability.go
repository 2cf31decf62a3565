package lpc

import (
	"fmt"
	"math"
)

const lspRepairIterations = 100

// LPCStabilityCheck tests linear predictive coefficients for filter
// stability in the PARCOR domain and optionally repairs them by
// clipping the reflection coefficients to |k| <= 1 - margin.
type LPCStabilityCheck struct {
	numOrder   int
	margin     float64
	toParcor   *LPCToParcorCoefficients
	fromParcor *ParcorToLPCCoefficients
	valid      bool
}

// LPCStabilityCheckBuffer holds the PARCOR workspace.
type LPCStabilityCheckBuffer struct {
	parcor     []float64
	toBuffer   LPCToParcorCoefficientsBuffer
	fromBuffer ParcorToLPCCoefficientsBuffer
}

// NewLPCStabilityCheck creates a checker of order numOrder with the
// given stability margin, 1e-16 <= margin < 1.
func NewLPCStabilityCheck(numOrder int, margin float64) *LPCStabilityCheck {
	c := &LPCStabilityCheck{
		numOrder:   numOrder,
		margin:     margin,
		toParcor:   NewLPCToParcorCoefficients(numOrder, 1.0),
		fromParcor: NewParcorToLPCCoefficients(numOrder),
	}
	c.valid = numOrder >= 0 &&
		margin >= 1e-16 && margin < 1.0 &&
		c.toParcor.IsValid() && c.fromParcor.IsValid()
	return c
}

// GetNumOrder returns the coefficient order.
func (c *LPCStabilityCheck) GetNumOrder() int {
	return c.numOrder
}

// GetMargin returns the stability margin.
func (c *LPCStabilityCheck) GetMargin() float64 {
	return c.margin
}

// IsValid reports whether the checker configuration is usable.
func (c *LPCStabilityCheck) IsValid() bool {
	return c.valid
}

// Run checks lpc for stability, writing repaired coefficients to
// output. The slices may point to the same storage. The returned
// flag is true when no repair was needed.
func (c *LPCStabilityCheck) Run(lpc, output []float64, buffer *LPCStabilityCheckBuffer) (bool, error) {
	if !c.valid {
		return false, fmt.Errorf("lpc stability check: invalid configuration")
	}
	if len(lpc) != c.numOrder+1 || len(output) != c.numOrder+1 {
		return false, fmt.Errorf("lpc stability check: length mismatch")
	}
	if buffer == nil {
		return false, fmt.Errorf("lpc stability check: nil buffer")
	}
	if len(buffer.parcor) != c.numOrder+1 {
		buffer.parcor = make([]float64, c.numOrder+1)
	}

	if _, err := c.toParcor.Run(lpc, buffer.parcor, &buffer.toBuffer); err != nil {
		return false, err
	}

	bound := 1.0 - c.margin
	stable := true
	for m := 1; m <= c.numOrder; m++ {
		k := buffer.parcor[m]
		if math.Abs(k) > bound {
			buffer.parcor[m] = math.Copysign(bound, k)
			stable = false
		}
	}

	if err := c.fromParcor.Run(buffer.parcor, output, &buffer.fromBuffer); err != nil {
		return false, err
	}
	return stable, nil
}

// LSPStabilityCheck tests line spectral pairs for the ordering
// property and repairs them by redistributing deficient gaps until
// adjacent frequencies are at least minGap apart.
type LSPStabilityCheck struct {
	numOrder int
	minGap   float64
	valid    bool
}

// NewLSPStabilityCheck creates a checker of order numOrder with the
// given minimum gap, 0 <= minGap <= pi / (numOrder + 1).
func NewLSPStabilityCheck(numOrder int, minGap float64) *LSPStabilityCheck {
	return &LSPStabilityCheck{
		numOrder: numOrder,
		minGap:   minGap,
		valid:    numOrder >= 0 && minGap >= 0.0 && minGap <= math.Pi/float64(numOrder+1),
	}
}

// GetNumOrder returns the coefficient order.
func (c *LSPStabilityCheck) GetNumOrder() int {
	return c.numOrder
}

// GetMinGap returns the minimum gap between adjacent frequencies.
func (c *LSPStabilityCheck) GetMinGap() float64 {
	return c.minGap
}

// IsValid reports whether the checker configuration is usable.
func (c *LSPStabilityCheck) IsValid() bool {
	return c.valid
}

// Run checks lsp (gain at index 0, frequencies in radians ascending)
// for stability, writing repaired values to output. The slices may
// point to the same storage.
func (c *LSPStabilityCheck) Run(lsp, output []float64) (bool, error) {
	if !c.valid {
		return false, fmt.Errorf("lsp stability check: invalid configuration")
	}
	if len(lsp) != c.numOrder+1 || len(output) != c.numOrder+1 {
		return false, fmt.Errorf("lsp stability check: length mismatch")
	}

	stable := true
	if c.numOrder > 0 {
		if lsp[1] <= 0.0 || lsp[c.numOrder] >= math.Pi {
			stable = false
		}
		for m := 2; m <= c.numOrder; m++ {
			if lsp[m] <= lsp[m-1] {
				stable = false
				break
			}
		}
	}

	output[0] = lsp[0]
	if c.numOrder == 0 {
		return stable, nil
	}

	copy(output[1:], lsp[1:])
	if stable && c.minGap == 0.0 {
		return stable, nil
	}

	for n := 0; n < lspRepairIterations; n++ {
		modified := false
		for m := 2; m <= c.numOrder; m++ {
			gap := output[m] - output[m-1]
			if gap < c.minGap {
				step := 0.5 * (c.minGap - gap)
				output[m-1] -= step
				output[m] += step
				modified = true
			}
		}
		if output[1] < c.minGap {
			output[1] = c.minGap
			modified = true
		}
		if output[c.numOrder] > math.Pi-c.minGap {
			output[c.numOrder] = math.Pi - c.minGap
			modified = true
		}
		if !modified {
			break
		}
	}
	return stable, nil
}
