package filters

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIIRFilterMovingAverage(t *testing.T) {
	// Numerator-only filter is a plain FIR convolution.
	f := NewIIRFilter([]float64{1.0}, []float64{1.0, 2.0, 3.0})
	require.True(t, f.IsValid())

	var buffer IIRFilterBuffer
	impulse := []float64{1.0, 0.0, 0.0, 0.0}
	want := []float64{1.0, 2.0, 3.0, 0.0}
	for i, x := range impulse {
		y, err := f.Run(x, &buffer)
		require.NoError(t, err)
		assert.InDelta(t, want[i], y, 1e-15, "sample %d", i)
	}
}

func TestIIRFilterOnePoleRecursion(t *testing.T) {
	f := NewIIRFilter([]float64{1.0, -0.5}, []float64{1.0})
	require.True(t, f.IsValid())

	var buffer IIRFilterBuffer
	want := 1.0
	for i := 0; i < 8; i++ {
		input := 0.0
		if i == 0 {
			input = 1.0
		}
		y, err := f.Run(input, &buffer)
		require.NoError(t, err)
		assert.InDelta(t, want, y, 1e-15, "sample %d", i)
		want *= 0.5
	}
}

func TestIIRFilterInvalidConfig(t *testing.T) {
	f := NewIIRFilter(nil, []float64{1.0})
	assert.False(t, f.IsValid())
	_, err := f.Run(1.0, &IIRFilterBuffer{})
	assert.Error(t, err)

	valid := NewIIRFilter([]float64{1.0}, []float64{1.0})
	_, err = valid.Run(1.0, nil)
	assert.Error(t, err)
}

func TestSecondOrderPoleFilterRecursion(t *testing.T) {
	const (
		frequency  = 1000.0
		bandwidth  = 200.0
		sampleRate = 16000.0
	)
	f := NewSecondOrderPoleFilter(frequency, bandwidth, sampleRate)
	require.True(t, f.IsValid())

	radius := math.Exp(-math.Pi * bandwidth / sampleRate)
	angle := 2.0 * math.Pi * frequency / sampleRate
	a1 := -2.0 * radius * math.Cos(angle)
	a2 := radius * radius

	var buffer SecondOrderDigitalFilterBuffer
	var y1, y2 float64
	for i := 0; i < 32; i++ {
		input := 0.0
		if i == 0 {
			input = 1.0
		}
		got, err := f.Run(input, &buffer)
		require.NoError(t, err)

		want := input - a1*y1 - a2*y2
		assert.InDelta(t, want, got, 1e-12, "sample %d", i)
		y2, y1 = y1, want
	}
}

func TestSecondOrderPoleZeroCancellation(t *testing.T) {
	// Identical pole and zero sections cancel exactly.
	f := NewSecondOrderPoleZeroFilter(500.0, 100.0, 500.0, 100.0, 8000.0)
	require.True(t, f.IsValid())

	rng := rand.New(rand.NewSource(7))
	var buffer SecondOrderDigitalFilterBuffer
	for i := 0; i < 64; i++ {
		x := rng.NormFloat64()
		y, err := f.Run(x, &buffer)
		require.NoError(t, err)
		assert.InDelta(t, x, y, 1e-12, "sample %d", i)
	}
}

func TestSecondOrderFilterInvalidConfig(t *testing.T) {
	assert.False(t, NewSecondOrderPoleFilter(0.0, 100.0, 8000.0).IsValid())
	assert.False(t, NewSecondOrderPoleFilter(4000.0, 100.0, 8000.0).IsValid())
	assert.False(t, NewSecondOrderZeroFilter(500.0, 0.0, 8000.0).IsValid())
	assert.False(t, NewSecondOrderPoleZeroFilter(500.0, 100.0, 500.0, -1.0, 8000.0).IsValid())
}

func TestMLSAFilterGainOnly(t *testing.T) {
	for _, order := range []int{0, 8} {
		f := NewMLSAFilter(order, 5, 0.42, false)
		require.True(t, f.IsValid())

		// With b(1)..b(M) zero the filter reduces to the gain exp b(0).
		b := make([]float64, order+1)
		b[0] = math.Log(2.0)
		var buffer MLSAFilterBuffer
		for i := 0; i < 16; i++ {
			x := math.Sin(0.3 * float64(i))
			y, err := f.Run(b, x, &buffer)
			require.NoError(t, err)
			assert.InDelta(t, 2.0*x, y, 1e-12, "order %d sample %d", order, i)
		}
	}
}

func TestMLSAFilterPadeOrders(t *testing.T) {
	for _, padeOrder := range []int{4, 5, 6, 7} {
		assert.True(t, NewMLSAFilter(10, padeOrder, 0.35, false).IsValid(), "pade %d", padeOrder)
	}
	assert.False(t, NewMLSAFilter(10, 3, 0.35, false).IsValid())
	assert.False(t, NewMLSAFilter(10, 8, 0.35, false).IsValid())
	assert.False(t, NewMLSAFilter(-1, 5, 0.35, false).IsValid())
}

func TestMLSAFilterAlphaRange(t *testing.T) {
	for _, alpha := range []float64{1.0, -1.0, 1.5} {
		f := NewMLSAFilter(2, 5, alpha, false)
		assert.False(t, f.IsValid(), "alpha %g", alpha)
		_, err := f.Run(make([]float64, 3), 1.0, &MLSAFilterBuffer{})
		assert.Error(t, err, "alpha %g", alpha)
	}
	assert.True(t, NewMLSAFilter(2, 5, 0.999, false).IsValid())
}

func TestMLSAFilterCoefficientLengthCheck(t *testing.T) {
	f := NewMLSAFilter(4, 5, 0.42, false)
	var buffer MLSAFilterBuffer
	_, err := f.Run([]float64{0.0, 0.0}, 1.0, &buffer)
	assert.Error(t, err)
	_, err = f.Run(make([]float64, 5), 1.0, nil)
	assert.Error(t, err)
}

func synthesisCoefficients(order int, rng *rand.Rand) []float64 {
	b := make([]float64, order+1)
	b[0] = 0.2
	for m := 1; m <= order; m++ {
		b[m] = 0.4 * rng.NormFloat64() / float64(m+1)
	}
	return b
}

func TestMGLSAFilterInverseRecoversExcitation(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	b := synthesisCoefficients(6, rng)

	for _, transposition := range []bool{false, true} {
		for _, numStage := range []int{1, 2, 4} {
			forward := NewMGLSAFilter(6, 5, numStage, 0.42, transposition)
			inverse := NewInverseMGLSAFilter(6, 5, numStage, 0.42, transposition)
			require.True(t, forward.IsValid())
			require.True(t, inverse.IsValid())

			var forwardBuffer MGLSAFilterBuffer
			var inverseBuffer InverseMGLSAFilterBuffer
			for i := 0; i < 128; i++ {
				excitation := rng.NormFloat64()
				synthesized, err := forward.Run(b, excitation, &forwardBuffer)
				require.NoError(t, err)
				recovered, err := inverse.Run(b, synthesized, &inverseBuffer)
				require.NoError(t, err)
				assert.InDelta(t, excitation, recovered, 1e-9,
					"stage %d transposition %v sample %d", numStage, transposition, i)
			}
		}
	}
}

func TestInverseMGLSAFilterStageZeroRoundTrip(t *testing.T) {
	// The Pade rational of exp satisfies R(-x) = 1/R(x), so the
	// sign-flipped MLSA route inverts the stage-zero filter exactly.
	rng := rand.New(rand.NewSource(5))
	b := synthesisCoefficients(4, rng)

	forward := NewMGLSAFilter(4, 5, 0, 0.42, false)
	inverse := NewInverseMGLSAFilter(4, 5, 0, 0.42, false)
	require.True(t, forward.IsValid())
	require.True(t, inverse.IsValid())

	var forwardBuffer MGLSAFilterBuffer
	var inverseBuffer InverseMGLSAFilterBuffer
	for i := 0; i < 128; i++ {
		excitation := rng.NormFloat64()
		synthesized, err := forward.Run(b, excitation, &forwardBuffer)
		require.NoError(t, err)
		recovered, err := inverse.Run(b, synthesized, &inverseBuffer)
		require.NoError(t, err)
		assert.InDelta(t, excitation, recovered, 1e-6, "sample %d", i)
	}
}

func TestMGLSAFilterInvalidConfig(t *testing.T) {
	assert.False(t, NewMGLSAFilter(4, 5, -1, 0.42, false).IsValid())
	assert.False(t, NewMGLSAFilter(4, 5, 2, 1.0, false).IsValid())
	assert.False(t, NewMGLSAFilter(4, 3, 0, 0.42, false).IsValid())
	// Invalid Pade order is irrelevant when stages are used.
	assert.True(t, NewMGLSAFilter(4, 3, 2, 0.42, false).IsValid())

	assert.False(t, NewInverseMGLSAFilter(4, 5, 2, -1.0, false).IsValid())
	assert.False(t, NewInverseMGLSAFilter(-2, 5, 2, 0.42, false).IsValid())
}
