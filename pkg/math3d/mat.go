package math3d

import (
	"errors"
	"math"
)

// ErrSingular is returned by Inverse when no non-zero pivot exists for some column.
var ErrSingular = errors.New("math3d: singular matrix")

// The helpers below operate on square n×n matrices stored column-major in a
// flat slice, element (row, col) at m[row+col*n]. Every fixed-size matrix type
// in this package shares them.

func swapRows(m []float64, n, i, j int) {
	if i == j {
		return
	}
	for c := range n {
		m[i+c*n], m[j+c*n] = m[j+c*n], m[i+c*n]
	}
}

func scaleRow(m []float64, n, i int, s float64) {
	for c := range n {
		m[i+c*n] *= s
	}
}

// addScaledRow performs row[dst] += s * row[src].
func addScaledRow(m []float64, n, dst, src int, s float64) {
	for c := range n {
		m[dst+c*n] += s * m[src+c*n]
	}
}

func mulInto(dst, a, b []float64, n int) {
	for col := range n {
		for row := range n {
			var sum float64
			for k := range n {
				sum += a[row+k*n] * b[k+col*n]
			}
			dst[row+col*n] = sum
		}
	}
}

func transposeInto(dst, m []float64, n int) {
	for col := range n {
		for row := range n {
			dst[col+row*n] = m[row+col*n]
		}
	}
}

func identityInto(m []float64, n int) {
	for i := range m {
		m[i] = 0
	}
	for i := range n {
		m[i+i*n] = 1
	}
}

// gaussJordan reduces a to the identity while replaying every row operation
// on inv, which starts as the identity and ends as the inverse of a.
// a is destroyed.
func gaussJordan(a, inv []float64, n int) error {
	identityInto(inv, n)
	for col := range n {
		pivot, best := col, math.Abs(a[col+col*n])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(a[r+col*n]); v > best {
				pivot, best = r, v
			}
		}
		if best == 0 {
			return ErrSingular
		}
		swapRows(a, n, col, pivot)
		swapRows(inv, n, col, pivot)

		s := 1 / a[col+col*n]
		scaleRow(a, n, col, s)
		scaleRow(inv, n, col, s)

		for r := range n {
			if r == col {
				continue
			}
			f := -a[r+col*n]
			if f == 0 {
				continue
			}
			addScaledRow(a, n, r, col, f)
			addScaledRow(inv, n, r, col, f)
		}
	}
	return nil
}

// Mat2 is a 2x2 matrix stored in column-major order.
type Mat2 [4]float64

// Identity2 returns the 2x2 identity matrix.
func Identity2() Mat2 {
	return Diagonal2(1)
}

// Diagonal2 returns a matrix with d on the diagonal and zero elsewhere.
func Diagonal2(d float64) Mat2 {
	return Mat2{d, 0, 0, d}
}

// Get returns the element at (row, col).
func (m Mat2) Get(row, col int) float64 {
	return m[row+col*2]
}

// Set sets the element at (row, col).
func (m *Mat2) Set(row, col int, val float64) {
	m[row+col*2] = val
}

// Row returns row i.
func (m Mat2) Row(i int) Vec2 {
	return Vec2{m[i], m[i+2]}
}

// Col returns column i.
func (m Mat2) Col(i int) Vec2 {
	return Vec2{m[i*2], m[i*2+1]}
}

// Mul returns the matrix product a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat2) Mul(b Mat2) Mat2 {
	var m Mat2
	mulInto(m[:], a[:], b[:], 2)
	return m
}

// MulVec returns m * v with v as a column vector.
func (m Mat2) MulVec(v Vec2) Vec2 {
	return Vec2{
		m[0]*v.X + m[2]*v.Y,
		m[1]*v.X + m[3]*v.Y,
	}
}

// MulScalar multiplies every element by s.
func (m Mat2) MulScalar(s float64) Mat2 {
	for i := range m {
		m[i] *= s
	}
	return m
}

// Add returns the element-wise sum.
//
//nolint:st1016 // a+b naming convention is clearer for matrix addition
func (a Mat2) Add(b Mat2) Mat2 {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

// Transpose returns the transposed matrix.
func (m Mat2) Transpose() Mat2 {
	var t Mat2
	transposeInto(t[:], m[:], 2)
	return t
}

// SwapRows exchanges rows i and j.
func (m *Mat2) SwapRows(i, j int) { swapRows(m[:], 2, i, j) }

// ScaleRow multiplies row i by s.
func (m *Mat2) ScaleRow(i int, s float64) { scaleRow(m[:], 2, i, s) }

// AddScaledRow adds s times row src to row dst.
func (m *Mat2) AddScaledRow(dst, src int, s float64) { addScaledRow(m[:], 2, dst, src, s) }

// Inverse returns the inverse of m, or ErrSingular.
func (m Mat2) Inverse() (Mat2, error) {
	var inv Mat2
	if err := gaussJordan(m[:], inv[:], 2); err != nil {
		return Mat2{}, err
	}
	return inv, nil
}

// Mat3 is a 3x3 matrix stored in column-major order.
type Mat3 [9]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Diagonal3(1)
}

// Diagonal3 returns a matrix with d on the diagonal and zero elsewhere.
func Diagonal3(d float64) Mat3 {
	return Mat3{d, 0, 0, 0, d, 0, 0, 0, d}
}

// Mat3FromRows builds a matrix whose rows are a, b and c.
func Mat3FromRows(a, b, c Vec3) Mat3 {
	return Mat3{
		a.X, b.X, c.X,
		a.Y, b.Y, c.Y,
		a.Z, b.Z, c.Z,
	}
}

// Mat3FromMat4 returns the upper-left 3x3 block of m.
func Mat3FromMat4(m Mat4) Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Get returns the element at (row, col).
func (m Mat3) Get(row, col int) float64 {
	return m[row+col*3]
}

// Set sets the element at (row, col).
func (m *Mat3) Set(row, col int, val float64) {
	m[row+col*3] = val
}

// Row returns row i.
func (m Mat3) Row(i int) Vec3 {
	return Vec3{m[i], m[i+3], m[i+6]}
}

// Col returns column i.
func (m Mat3) Col(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// Mul returns the matrix product a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	mulInto(m[:], a[:], b[:], 3)
	return m
}

// MulVec returns m * v with v as a column vector.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// MulScalar multiplies every element by s.
func (m Mat3) MulScalar(s float64) Mat3 {
	for i := range m {
		m[i] *= s
	}
	return m
}

// Add returns the element-wise sum.
//
//nolint:st1016 // a+b naming convention is clearer for matrix addition
func (a Mat3) Add(b Mat3) Mat3 {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	var t Mat3
	transposeInto(t[:], m[:], 3)
	return t
}

// SwapRows exchanges rows i and j.
func (m *Mat3) SwapRows(i, j int) { swapRows(m[:], 3, i, j) }

// ScaleRow multiplies row i by s.
func (m *Mat3) ScaleRow(i int, s float64) { scaleRow(m[:], 3, i, s) }

// AddScaledRow adds s times row src to row dst.
func (m *Mat3) AddScaledRow(dst, src int, s float64) { addScaledRow(m[:], 3, dst, src, s) }

// Inverse returns the inverse of m, or ErrSingular.
func (m Mat3) Inverse() (Mat3, error) {
	var inv Mat3
	if err := gaussJordan(m[:], inv[:], 3); err != nil {
		return Mat3{}, err
	}
	return inv, nil
}
