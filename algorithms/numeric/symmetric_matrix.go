package numeric

import (
	"fmt"
)

// SymmetricMatrix stores a symmetric matrix in packed lower-triangular
// form. Logical indexing is symmetric: At(i, j) == At(j, i).
type SymmetricMatrix struct {
	dim  int
	data []float64 // row-major lower triangle, len dim*(dim+1)/2
}

// NewSymmetricMatrix creates a dim x dim symmetric matrix filled with zeros.
func NewSymmetricMatrix(dim int) *SymmetricMatrix {
	if dim < 0 {
		dim = 0
	}
	return &SymmetricMatrix{
		dim:  dim,
		data: make([]float64, dim*(dim+1)/2),
	}
}

// Dim returns the matrix dimension.
func (m *SymmetricMatrix) Dim() int {
	return m.dim
}

func (m *SymmetricMatrix) index(row, column int) int {
	if row < column {
		row, column = column, row
	}
	return row*(row+1)/2 + column
}

// At returns the element at (row, column). Indices outside the
// dimension panic, matching slice semantics.
func (m *SymmetricMatrix) At(row, column int) float64 {
	return m.data[m.index(row, column)]
}

// Set assigns the element at (row, column) and its mirror.
func (m *SymmetricMatrix) Set(row, column int, value float64) {
	m.data[m.index(row, column)] = value
}

// Fill sets every element to value.
func (m *SymmetricMatrix) Fill(value float64) {
	for i := range m.data {
		m.data[i] = value
	}
}

// Resize changes the dimension and zeros the contents.
func (m *SymmetricMatrix) Resize(dim int) {
	if dim < 0 {
		dim = 0
	}
	m.dim = dim
	need := dim * (dim + 1) / 2
	if cap(m.data) < need {
		m.data = make([]float64, need)
		return
	}
	m.data = m.data[:need]
	for i := range m.data {
		m.data[i] = 0.0
	}
}

// Diagonal copies the diagonal elements into out, which must have
// length Dim.
func (m *SymmetricMatrix) Diagonal(out []float64) error {
	if len(out) != m.dim {
		return fmt.Errorf("diagonal output length %d does not match dimension %d", len(out), m.dim)
	}
	for i := 0; i < m.dim; i++ {
		out[i] = m.At(i, i)
	}
	return nil
}

// CholeskyLDL factorizes the matrix as L*diag(d)*L^T with unit-diagonal
// L. The lower matrix must have the same dimension and diag must have
// length Dim. The matrix may be indefinite; the factorization fails only
// when a pivot is exactly zero.
func (m *SymmetricMatrix) CholeskyLDL(lower *SymmetricMatrix, diag []float64) error {
	if lower == nil || lower == m {
		return fmt.Errorf("invalid factorization target")
	}
	if m.dim == 0 {
		return fmt.Errorf("empty matrix")
	}
	if m.At(0, 0) == 0.0 {
		return fmt.Errorf("zero pivot at row 0")
	}
	if lower.dim != m.dim {
		lower.Resize(m.dim)
	}
	if len(diag) != m.dim {
		return fmt.Errorf("diagonal length %d does not match dimension %d", len(diag), m.dim)
	}

	diag[0] = m.At(0, 0)
	lower.Set(0, 0, 1.0)
	for i := 1; i < m.dim; i++ {
		for j := 0; j < i; j++ {
			tmp := m.At(i, j)
			for k := 0; k < j; k++ {
				tmp -= lower.At(i, k) * lower.At(j, k) * diag[k]
			}
			lower.Set(i, j, tmp/diag[j])
		}

		d := m.At(i, i)
		for j := 0; j < i; j++ {
			l := lower.At(i, j)
			d -= l * l * diag[j]
		}
		if d == 0.0 {
			return fmt.Errorf("zero pivot at row %d", i)
		}
		diag[i] = d
		lower.Set(i, i, 1.0)
	}
	return nil
}
