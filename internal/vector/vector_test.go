package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSparse(t *testing.T) {
	s := NewSparse(map[int]float64{5: 2.5, 1: -1, 3: 0})

	assert.Equal(t, []int{1, 5}, s.Indices)
	assert.Equal(t, []float64{-1, 2.5}, s.Values)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, -1.0, s.At(1))
	assert.Equal(t, 0.0, s.At(3))
	assert.Equal(t, 2.5, s.At(5))
	assert.Equal(t, 0.0, s.At(99))
}

func TestSparse_DotAndNorm(t *testing.T) {
	a := NewSparse(map[int]float64{0: 1, 2: 2})
	b := NewSparse(map[int]float64{2: 3, 5: 4})

	assert.Equal(t, 6.0, a.Dot(b))
	assert.Equal(t, 6.0, b.Dot(a))
	assert.Equal(t, 5.0, NewSparse(map[int]float64{1: 3, 7: 4}).Norm())
	assert.Equal(t, 0.0, Sparse{}.Norm())
}

func TestSparse_Arithmetic(t *testing.T) {
	a := NewSparse(map[int]float64{0: 1, 2: 2})
	b := NewSparse(map[int]float64{2: 2, 3: 1})

	t.Run("add", func(t *testing.T) {
		sum := a.Add(b)
		assert.Equal(t, []int{0, 2, 3}, sum.Indices)
		assert.Equal(t, []float64{1, 4, 1}, sum.Values)
	})

	t.Run("sub drops cancelled components", func(t *testing.T) {
		diff := a.Sub(b)
		assert.Equal(t, []int{0, 3}, diff.Indices)
		assert.Equal(t, []float64{1, -1}, diff.Values)
	})

	t.Run("scale and div", func(t *testing.T) {
		assert.Equal(t, []float64{0.5, 1}, a.Scale(0.5).Values)
		assert.Equal(t, []float64{0.25, 0.5}, a.Div(4).Values)
		assert.True(t, a.Scale(0).IsZero())
	})

	t.Run("operands are not mutated", func(t *testing.T) {
		_ = a.Add(b)
		_ = a.Scale(10)
		assert.Equal(t, []float64{1, 2}, a.Values)
		assert.Equal(t, []float64{2, 1}, b.Values)
	})
}

func TestDense(t *testing.T) {
	a := Dense{1, 2, 3}
	b := Dense{4, 5, 6}

	assert.Equal(t, 32.0, a.Dot(b))
	assert.Equal(t, Dense{5, 7, 9}, a.Add(b))
	assert.Equal(t, Dense{-3, -3, -3}, a.Sub(b))
	assert.Equal(t, Dense{2, 4, 6}, a.Scale(2))
	assert.Equal(t, Dense{0.5, 1, 1.5}, a.Div(2))
	assert.Equal(t, 5.0, Dense{3, 4}.Norm())
	assert.True(t, Zeros(4).IsZero())
	assert.Len(t, Zeros(4), 4)
	assert.False(t, a.IsZero())
}

func TestCosine(t *testing.T) {
	t.Run("symmetric for sparse vectors", func(t *testing.T) {
		a := NewSparse(map[int]float64{0: 0.3, 1: -0.7, 4: 1.1})
		b := NewSparse(map[int]float64{1: 0.2, 4: 0.9, 6: 2})
		assert.Equal(t, Cosine(a, b), Cosine(b, a))
	})

	t.Run("symmetric for dense vectors", func(t *testing.T) {
		a := Dense{0.1, -0.4, 0.25}
		b := Dense{0.7, 0.3, -0.05}
		assert.Equal(t, Cosine(a, b), Cosine(b, a))
	})

	t.Run("self similarity is one", func(t *testing.T) {
		a := NewSparse(map[int]float64{0: 0.3, 1: -0.7, 4: 1.1})
		assert.InDelta(t, 1.0, Cosine(a, a), 1e-12)
		assert.LessOrEqual(t, Cosine(a, a), 1.0)

		d := Dense{0.1, 0.2, 0.3}
		assert.InDelta(t, 1.0, Cosine(d, d), 1e-12)
	})

	t.Run("zero norm yields zero", func(t *testing.T) {
		a := NewSparse(map[int]float64{0: 1})
		assert.Equal(t, 0.0, Cosine(a, Sparse{}))
		assert.Equal(t, 0.0, Cosine(Sparse{}, a))
		assert.Equal(t, 0.0, Cosine(Zeros(3), Dense{1, 2, 3}))
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		a := NewSparse(map[int]float64{0: 1})
		b := NewSparse(map[int]float64{1: 1})
		assert.Equal(t, 0.0, Cosine(a, b))
	})

	t.Run("opposite vectors", func(t *testing.T) {
		assert.InDelta(t, -1.0, Cosine(Dense{1, 2}, Dense{-1, -2}), 1e-12)
	})
}
