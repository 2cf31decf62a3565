package spectral

import (
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allLayouts() []DataLayout {
	return []DataLayout{
		LayoutStandard,
		LayoutFourierTransform,
		LayoutImpulseResponse,
		LayoutPlottingImpulseResponse,
	}
}

func TestDataSymmetrizingKnownExpansions(t *testing.T) {
	input := []float64{0.0, 1.0, 2.0}

	toFFT := NewDataSymmetrizing(4, LayoutStandard, LayoutFourierTransform)
	require.True(t, toFFT.IsValid())
	output := make([]float64, toFFT.GetOutputLength())
	require.NoError(t, toFFT.Run(input, output))
	assert.Equal(t, []float64{0.0, 1.0, 2.0, 1.0}, output)

	toImpulse := NewDataSymmetrizing(4, LayoutStandard, LayoutImpulseResponse)
	require.True(t, toImpulse.IsValid())
	output = make([]float64, toImpulse.GetOutputLength())
	require.NoError(t, toImpulse.Run(input, output))
	assert.Equal(t, []float64{1.0, 1.0, 0.0, 1.0, 1.0}, output)

	toPlot := NewDataSymmetrizing(6, LayoutStandard, LayoutPlottingImpulseResponse)
	require.True(t, toPlot.IsValid())
	output = make([]float64, toPlot.GetOutputLength())
	require.NoError(t, toPlot.Run([]float64{0.0, 1.0, 2.0, 3.0}, output))
	assert.Equal(t, []float64{3.0, 2.0, 1.0, 0.0, 1.0, 2.0, 3.0}, output)
}

func TestDataSymmetrizingRoundTripAllPairs(t *testing.T) {
	const fftLength = 8
	base := map[DataLayout][]float64{}

	// Build each layout once from the same half spectrum.
	half := []float64{1.0, 2.0, 3.0, 4.0, 5.0}
	for _, layout := range allLayouts() {
		d := NewDataSymmetrizing(fftLength, LayoutStandard, layout)
		require.True(t, d.IsValid())
		out := make([]float64, d.GetOutputLength())
		require.NoError(t, d.Run(half, out))
		base[layout] = out
	}

	for _, in := range allLayouts() {
		for _, out := range allLayouts() {
			forward := NewDataSymmetrizing(fftLength, in, out)
			backward := NewDataSymmetrizing(fftLength, out, in)
			require.True(t, forward.IsValid(), "pair %d->%d", in, out)
			require.True(t, backward.IsValid(), "pair %d->%d", out, in)

			mid := make([]float64, forward.GetOutputLength())
			back := make([]float64, backward.GetOutputLength())
			require.NoError(t, forward.Run(base[in], mid))
			require.NoError(t, backward.Run(mid, back))
			assert.InDeltaSlice(t, base[in], back, 1e-15, "pair %d->%d", in, out)
		}
	}
}

func TestDataSymmetrizingFFTFormIsEvenSymmetric(t *testing.T) {
	d := NewDataSymmetrizing(8, LayoutStandard, LayoutFourierTransform)
	require.True(t, d.IsValid())

	input := []float64{0.5, -1.0, 2.5, 0.25, -0.75}
	output := make([]float64, 8)
	require.NoError(t, d.Run(input, output))

	// An even-symmetric real sequence has a purely real DFT.
	spectrum := fft.FFTReal(output)
	for i, bin := range spectrum {
		assert.InDelta(t, 0.0, imag(bin), 1e-12, "bin %d", i)
	}
}

func TestDataSymmetrizingInvalidConfig(t *testing.T) {
	assert.False(t, NewDataSymmetrizing(0, LayoutStandard, LayoutFourierTransform).IsValid())
	assert.False(t, NewDataSymmetrizing(5, LayoutStandard, LayoutFourierTransform).IsValid())
	assert.False(t, NewDataSymmetrizing(-2, LayoutStandard, LayoutStandard).IsValid())

	d := NewDataSymmetrizing(4, LayoutStandard, LayoutFourierTransform)
	assert.Error(t, d.Run([]float64{0.0, 1.0}, make([]float64, 4)))
	assert.Error(t, d.Run([]float64{0.0, 1.0, 2.0}, make([]float64, 5)))
}
