package numeric

import (
	"fmt"
	"math"
)

type scalarOpKind int

const (
	opAddition scalarOpKind = iota
	opSubtraction
	opMultiplication
	opDivision
	opModulo
	opPower
	opLowerBounding
	opUpperBounding
	opAbsolute
	opReciprocal
	opSquare
	opSquareRoot
	opNaturalLogarithm
	opLogarithm
	opNaturalExponential
	opExponential
	opFlooring
	opCeiling
	opRounding
	opRoundingUp
	opRoundingDown
	opUnitStep
	opSign
	opSine
	opCosine
	opTangent
	opArctangent
	opHyperbolicTangent
	opHyperbolicArctangent
	opMagicNumberRemover
	opMagicNumberReplacer
)

type scalarStep struct {
	kind    scalarOpKind
	operand float64
	modulo  int
}

// ScalarOperation applies a sequence of scalar steps to one sample at
// a time, carrying a magic-number flag through the pipeline. While the
// flag is set, arithmetic steps pass the sample through untouched; a
// replacer substitutes its value and clears the flag.
type ScalarOperation struct {
	steps    []scalarStep
	useMagic bool
}

// NewScalarOperation creates an empty pipeline.
func NewScalarOperation() *ScalarOperation {
	return &ScalarOperation{}
}

func (s *ScalarOperation) add(kind scalarOpKind, operand float64) {
	s.steps = append(s.steps, scalarStep{kind: kind, operand: operand})
}

// AddAddition appends x -> x + addend.
func (s *ScalarOperation) AddAddition(addend float64) error {
	s.add(opAddition, addend)
	return nil
}

// AddSubtraction appends x -> x - subtrahend.
func (s *ScalarOperation) AddSubtraction(subtrahend float64) error {
	s.add(opSubtraction, subtrahend)
	return nil
}

// AddMultiplication appends x -> x * multiplier.
func (s *ScalarOperation) AddMultiplication(multiplier float64) error {
	s.add(opMultiplication, multiplier)
	return nil
}

// AddDivision appends x -> x / divisor. A zero divisor fails at build
// time.
func (s *ScalarOperation) AddDivision(divisor float64) error {
	if divisor == 0.0 {
		return fmt.Errorf("scalar operation: division by zero")
	}
	s.add(opDivision, 1.0/divisor)
	return nil
}

// AddModulo appends x -> int(x) % divisor. A zero divisor fails at
// build time.
func (s *ScalarOperation) AddModulo(divisor int) error {
	if divisor == 0 {
		return fmt.Errorf("scalar operation: modulo by zero")
	}
	s.steps = append(s.steps, scalarStep{kind: opModulo, modulo: divisor})
	return nil
}

// AddPower appends x -> x^exponent.
func (s *ScalarOperation) AddPower(exponent float64) error {
	s.add(opPower, exponent)
	return nil
}

// AddLowerBounding appends x -> max(x, lowerBound).
func (s *ScalarOperation) AddLowerBounding(lowerBound float64) error {
	s.add(opLowerBounding, lowerBound)
	return nil
}

// AddUpperBounding appends x -> min(x, upperBound).
func (s *ScalarOperation) AddUpperBounding(upperBound float64) error {
	s.add(opUpperBounding, upperBound)
	return nil
}

// AddAbsolute appends x -> |x|.
func (s *ScalarOperation) AddAbsolute() error {
	s.add(opAbsolute, 0.0)
	return nil
}

// AddReciprocal appends x -> 1/x.
func (s *ScalarOperation) AddReciprocal() error {
	s.add(opReciprocal, 0.0)
	return nil
}

// AddSquare appends x -> x^2.
func (s *ScalarOperation) AddSquare() error {
	s.add(opSquare, 0.0)
	return nil
}

// AddSquareRoot appends x -> sqrt(x).
func (s *ScalarOperation) AddSquareRoot() error {
	s.add(opSquareRoot, 0.0)
	return nil
}

// AddNaturalLogarithm appends x -> ln(x).
func (s *ScalarOperation) AddNaturalLogarithm() error {
	s.add(opNaturalLogarithm, 0.0)
	return nil
}

// AddLogarithm appends x -> log_base(x). A base of zero or below fails
// at build time.
func (s *ScalarOperation) AddLogarithm(base float64) error {
	if base <= 0.0 {
		return fmt.Errorf("scalar operation: logarithm base must be positive")
	}
	s.add(opLogarithm, 1.0/math.Log(base))
	return nil
}

// AddNaturalExponential appends x -> e^x.
func (s *ScalarOperation) AddNaturalExponential() error {
	s.add(opNaturalExponential, 0.0)
	return nil
}

// AddExponential appends x -> base^x.
func (s *ScalarOperation) AddExponential(base float64) error {
	s.add(opExponential, base)
	return nil
}

// AddFlooring appends x -> floor(x).
func (s *ScalarOperation) AddFlooring() error {
	s.add(opFlooring, 0.0)
	return nil
}

// AddCeiling appends x -> ceil(x).
func (s *ScalarOperation) AddCeiling() error {
	s.add(opCeiling, 0.0)
	return nil
}

// AddRounding appends x -> round(x).
func (s *ScalarOperation) AddRounding() error {
	s.add(opRounding, 0.0)
	return nil
}

// AddRoundingUp appends rounding away from zero.
func (s *ScalarOperation) AddRoundingUp() error {
	s.add(opRoundingUp, 0.0)
	return nil
}

// AddRoundingDown appends truncation toward zero.
func (s *ScalarOperation) AddRoundingDown() error {
	s.add(opRoundingDown, 0.0)
	return nil
}

// AddUnitStep appends x -> 0 for x < 0, else 1.
func (s *ScalarOperation) AddUnitStep() error {
	s.add(opUnitStep, 0.0)
	return nil
}

// AddSign appends x -> -1, 0, or 1.
func (s *ScalarOperation) AddSign() error {
	s.add(opSign, 0.0)
	return nil
}

// AddSine appends x -> sin(x).
func (s *ScalarOperation) AddSine() error {
	s.add(opSine, 0.0)
	return nil
}

// AddCosine appends x -> cos(x).
func (s *ScalarOperation) AddCosine() error {
	s.add(opCosine, 0.0)
	return nil
}

// AddTangent appends x -> tan(x).
func (s *ScalarOperation) AddTangent() error {
	s.add(opTangent, 0.0)
	return nil
}

// AddArctangent appends x -> atan(x).
func (s *ScalarOperation) AddArctangent() error {
	s.add(opArctangent, 0.0)
	return nil
}

// AddHyperbolicTangent appends x -> tanh(x).
func (s *ScalarOperation) AddHyperbolicTangent() error {
	s.add(opHyperbolicTangent, 0.0)
	return nil
}

// AddHyperbolicArctangent appends x -> atanh(x).
func (s *ScalarOperation) AddHyperbolicArctangent() error {
	s.add(opHyperbolicArctangent, 0.0)
	return nil
}

// AddMagicNumberRemover appends a step that flags samples equal to
// magicNumber. Only one remover may be added, and it must precede any
// replacer.
func (s *ScalarOperation) AddMagicNumberRemover(magicNumber float64) error {
	if s.useMagic {
		return fmt.Errorf("scalar operation: magic number remover already added")
	}
	s.add(opMagicNumberRemover, magicNumber)
	s.useMagic = true
	return nil
}

// AddMagicNumberReplacer appends a step that substitutes flagged
// samples with replacement and clears the flag. Fails when no remover
// precedes it.
func (s *ScalarOperation) AddMagicNumberReplacer(replacement float64) error {
	if !s.useMagic {
		return fmt.Errorf("scalar operation: magic number replacer requires a preceding remover")
	}
	s.add(opMagicNumberReplacer, replacement)
	s.useMagic = false
	return nil
}

func extractSign(x float64) float64 {
	if x > 0.0 {
		return 1.0
	}
	if x < 0.0 {
		return -1.0
	}
	return 0.0
}

// Run feeds one sample through the pipeline. The returned flag reports
// whether the sample left the pipeline still marked as a magic number.
func (s *ScalarOperation) Run(x float64) (float64, bool) {
	isMagic := false
	for _, step := range s.steps {
		switch step.kind {
		case opMagicNumberRemover:
			if !isMagic && x == step.operand {
				isMagic = true
			}
			continue
		case opMagicNumberReplacer:
			if isMagic {
				x = step.operand
				isMagic = false
			}
			continue
		}
		if isMagic {
			continue
		}
		switch step.kind {
		case opAddition:
			x += step.operand
		case opSubtraction:
			x -= step.operand
		case opMultiplication:
			x *= step.operand
		case opDivision:
			x *= step.operand
		case opModulo:
			x = float64(int(x) % step.modulo)
		case opPower:
			x = math.Pow(x, step.operand)
		case opLowerBounding:
			if x < step.operand {
				x = step.operand
			}
		case opUpperBounding:
			if step.operand < x {
				x = step.operand
			}
		case opAbsolute:
			x = math.Abs(x)
		case opReciprocal:
			x = 1.0 / x
		case opSquare:
			x *= x
		case opSquareRoot:
			x = math.Sqrt(x)
		case opNaturalLogarithm:
			x = math.Log(x)
		case opLogarithm:
			x = math.Log(x) * step.operand
		case opNaturalExponential:
			x = math.Exp(x)
		case opExponential:
			x = math.Pow(step.operand, x)
		case opFlooring:
			x = math.Floor(x)
		case opCeiling:
			x = math.Ceil(x)
		case opRounding:
			x = math.Round(x)
		case opRoundingUp:
			if x < 0.0 {
				x = math.Floor(x)
			} else {
				x = math.Ceil(x)
			}
		case opRoundingDown:
			x = math.Trunc(x)
		case opUnitStep:
			if x < 0.0 {
				x = 0.0
			} else {
				x = 1.0
			}
		case opSign:
			x = extractSign(x)
		case opSine:
			x = math.Sin(x)
		case opCosine:
			x = math.Cos(x)
		case opTangent:
			x = math.Tan(x)
		case opArctangent:
			x = math.Atan(x)
		case opHyperbolicTangent:
			x = math.Tanh(x)
		case opHyperbolicArctangent:
			x = math.Atanh(x)
		}
	}
	return x, isMagic
}
