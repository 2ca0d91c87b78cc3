package vector

import "sort"

// Sparse is a vector over a vocabulary, storing only non-zero components.
// Indices are strictly ascending vocabulary positions; Values are aligned with them.
type Sparse struct {
	Indices []int
	Values  []float64
}

// NewSparse builds a sparse vector from index/weight pairs. Zero weights are dropped.
func NewSparse(weights map[int]float64) Sparse {
	indices := make([]int, 0, len(weights))
	for i, w := range weights {
		if w != 0 {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for k, i := range indices {
		values[k] = weights[i]
	}
	return Sparse{Indices: indices, Values: values}
}

// Len returns the number of stored (non-zero) components.
func (s Sparse) Len() int { return len(s.Indices) }

// At returns the component at vocabulary index i, 0 when it is not stored.
func (s Sparse) At(i int) float64 {
	k := sort.SearchInts(s.Indices, i)
	if k < len(s.Indices) && s.Indices[k] == i {
		return s.Values[k]
	}
	return 0
}

// IsZero reports whether the vector has no non-zero component.
func (s Sparse) IsZero() bool { return len(s.Indices) == 0 }

// Dot returns the inner product over the shared indices.
func (s Sparse) Dot(other Sparse) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(s.Indices) && j < len(other.Indices) {
		switch {
		case s.Indices[i] == other.Indices[j]:
			sum += s.Values[i] * other.Values[j]
			i++
			j++
		case s.Indices[i] < other.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean norm.
func (s Sparse) Norm() float64 { return sqrtSumSquares(s.Values) }

// Add returns s + other.
func (s Sparse) Add(other Sparse) Sparse {
	return s.merge(other, func(a, b float64) float64 { return a + b })
}

// Sub returns s - other.
func (s Sparse) Sub(other Sparse) Sparse {
	return s.merge(other, func(a, b float64) float64 { return a - b })
}

// Scale returns factor * s.
func (s Sparse) Scale(factor float64) Sparse {
	return s.mapValues(func(v float64) float64 { return factor * v })
}

// Div returns s / divisor, component by component.
func (s Sparse) Div(divisor float64) Sparse {
	return s.mapValues(func(v float64) float64 { return v / divisor })
}

func (s Sparse) mapValues(fn func(float64) float64) Sparse {
	out := Sparse{
		Indices: make([]int, 0, len(s.Indices)),
		Values:  make([]float64, 0, len(s.Values)),
	}
	for k, i := range s.Indices {
		if v := fn(s.Values[k]); v != 0 {
			out.Indices = append(out.Indices, i)
			out.Values = append(out.Values, v)
		}
	}
	return out
}

// merge combines two vectors over the union of their indices. A component
// missing on one side takes part in the operation as 0.
func (s Sparse) merge(other Sparse, op func(a, b float64) float64) Sparse {
	out := Sparse{
		Indices: make([]int, 0, len(s.Indices)+len(other.Indices)),
		Values:  make([]float64, 0, len(s.Values)+len(other.Values)),
	}
	push := func(i int, v float64) {
		if v != 0 {
			out.Indices = append(out.Indices, i)
			out.Values = append(out.Values, v)
		}
	}

	i, j := 0, 0
	for i < len(s.Indices) || j < len(other.Indices) {
		switch {
		case j >= len(other.Indices) || (i < len(s.Indices) && s.Indices[i] < other.Indices[j]):
			push(s.Indices[i], op(s.Values[i], 0))
			i++
		case i >= len(s.Indices) || other.Indices[j] < s.Indices[i]:
			push(other.Indices[j], op(0, other.Values[j]))
			j++
		default:
			push(s.Indices[i], op(s.Values[i], other.Values[j]))
			i++
			j++
		}
	}
	return out
}
