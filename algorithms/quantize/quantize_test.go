package quantize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformQuantizerMidRise(t *testing.T) {
	q := NewUniformQuantizer(2.0, 2, MidRise)
	require.True(t, q.IsValid())
	assert.Equal(t, 4, q.Levels())
	assert.InDelta(t, 1.0, q.StepSize(), 1e-15)

	iq := NewInverseUniformQuantizer(2.0, 2, MidRise)
	require.True(t, iq.IsValid())

	inputs := []float64{-2.0, -1.0, 0.0, 1.0, 2.0}
	wantIndices := []int{0, 1, 2, 3, 3}
	wantValues := []float64{-1.5, -0.5, 0.5, 1.5, 1.5}

	for i, x := range inputs {
		index, err := q.Quantize(x)
		require.NoError(t, err)
		assert.Equal(t, wantIndices[i], index, "input %v", x)

		value, err := iq.Dequantize(index)
		require.NoError(t, err)
		assert.InDelta(t, wantValues[i], value, 1e-15, "input %v", x)
	}
}

func TestUniformQuantizerMidTread(t *testing.T) {
	q := NewUniformQuantizer(2.0, 2, MidTread)
	require.True(t, q.IsValid())
	assert.Equal(t, 3, q.Levels())

	iq := NewInverseUniformQuantizer(2.0, 2, MidTread)
	require.True(t, iq.IsValid())

	inputs := []float64{-2.0, -1.0, 0.0, 1.0, 2.0}
	wantIndices := []int{0, 0, 1, 2, 2}
	wantValues := []float64{-4.0 / 3.0, -4.0 / 3.0, 0.0, 4.0 / 3.0, 4.0 / 3.0}

	for i, x := range inputs {
		index, err := q.Quantize(x)
		require.NoError(t, err)
		assert.Equal(t, wantIndices[i], index, "input %v", x)

		value, err := iq.Dequantize(index)
		require.NoError(t, err)
		assert.InDelta(t, wantValues[i], value, 1e-15, "input %v", x)
	}
}

func TestUniformQuantizerRoundTripError(t *testing.T) {
	q := NewUniformQuantizer(1.0, 4, MidRise)
	iq := NewInverseUniformQuantizer(1.0, 4, MidRise)
	require.True(t, q.IsValid())
	require.True(t, iq.IsValid())

	half := q.StepSize() / 2.0
	for x := -0.999; x < 1.0; x += 0.0137 {
		index, err := q.Quantize(x)
		require.NoError(t, err)
		value, err := iq.Dequantize(index)
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(x-value), half+1e-12, "input %v", x)
	}
}

func TestUniformQuantizerInvalidConfig(t *testing.T) {
	assert.False(t, NewUniformQuantizer(0.0, 2, MidRise).IsValid())
	assert.False(t, NewUniformQuantizer(1.0, 0, MidRise).IsValid())
	assert.False(t, NewInverseUniformQuantizer(-1.0, 2, MidTread).IsValid())
}

func TestVectorQuantizerNearestNeighbour(t *testing.T) {
	codebook := [][]float64{
		{0.0, 0.0},
		{1.0, 0.0},
		{0.0, 1.0},
		{1.0, 1.0},
	}

	vq := NewVectorQuantizer(1)
	require.True(t, vq.IsValid())

	index, err := vq.Quantize([]float64{0.9, 0.2}, codebook)
	require.NoError(t, err)
	assert.Equal(t, 1, index)

	// Equidistant inputs resolve to the lowest index.
	index, err = vq.Quantize([]float64{0.5, 0.5}, codebook)
	require.NoError(t, err)
	assert.Equal(t, 0, index)

	ivq := NewInverseVectorQuantizer(1)
	require.True(t, ivq.IsValid())
	output := make([]float64, 2)
	require.NoError(t, ivq.Dequantize(2, codebook, output))
	assert.Equal(t, []float64{0.0, 1.0}, output)

	assert.Error(t, ivq.Dequantize(4, codebook, output))
	assert.Error(t, ivq.Dequantize(-1, codebook, output))
}

func TestMultistageVectorQuantizerRoundTrip(t *testing.T) {
	codebooks := [][][]float64{
		{
			{-1.0, -1.0},
			{1.0, 1.0},
		},
		{
			{-0.25, 0.25},
			{0.25, -0.25},
		},
	}

	mq := NewMultistageVectorQuantizer(1, 2)
	imq := NewInverseMultistageVectorQuantizer(1, 2)
	require.True(t, mq.IsValid())
	require.True(t, imq.IsValid())

	input := []float64{0.8, 1.2}
	indices := make([]int, 2)
	var buffer MultistageVectorQuantizerBuffer
	require.NoError(t, mq.Quantize(input, codebooks, indices, &buffer))
	assert.Equal(t, []int{1, 0}, indices)

	output := make([]float64, 2)
	var inverseBuffer InverseMultistageVectorQuantizerBuffer
	require.NoError(t, imq.Dequantize(indices, codebooks, output, &inverseBuffer))
	assert.InDelta(t, 0.75, output[0], 1e-15)
	assert.InDelta(t, 1.25, output[1], 1e-15)
}

func TestMultistageVectorQuantizerArgumentChecks(t *testing.T) {
	mq := NewMultistageVectorQuantizer(1, 2)
	var buffer MultistageVectorQuantizerBuffer
	codebooks := [][][]float64{{{0.0, 0.0}}}

	err := mq.Quantize([]float64{0.0, 0.0}, codebooks, make([]int, 2), &buffer)
	assert.Error(t, err)

	err = mq.Quantize([]float64{0.0}, codebooks, make([]int, 1), &buffer)
	assert.Error(t, err)

	assert.False(t, NewMultistageVectorQuantizer(1, 0).IsValid())
}
