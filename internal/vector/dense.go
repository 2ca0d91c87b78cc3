package vector

// Dense is a fixed-width real vector, used for embedding averages.
type Dense []float64

// Zeros returns the all-zero dense vector of the given width.
func Zeros(dimension int) Dense {
	return make(Dense, dimension)
}

// IsZero reports whether every component is 0.
func (d Dense) IsZero() bool {
	for _, v := range d {
		if v != 0 {
			return false
		}
	}
	return true
}

// Dot returns the inner product. Vectors of one table share a width; a
// shorter operand contributes zeros for the missing components.
func (d Dense) Dot(other Dense) float64 {
	n := len(d)
	if len(other) < n {
		n = len(other)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += d[i] * other[i]
	}
	return sum
}

// Norm returns the Euclidean norm.
func (d Dense) Norm() float64 { return sqrtSumSquares(d) }

// Add returns d + other.
func (d Dense) Add(other Dense) Dense {
	return d.zip(other, func(a, b float64) float64 { return a + b })
}

// Sub returns d - other.
func (d Dense) Sub(other Dense) Dense {
	return d.zip(other, func(a, b float64) float64 { return a - b })
}

// Scale returns factor * d.
func (d Dense) Scale(factor float64) Dense {
	out := make(Dense, len(d))
	for i, v := range d {
		out[i] = factor * v
	}
	return out
}

// Div returns d / divisor.
func (d Dense) Div(divisor float64) Dense {
	out := make(Dense, len(d))
	for i, v := range d {
		out[i] = v / divisor
	}
	return out
}

func (d Dense) zip(other Dense, op func(a, b float64) float64) Dense {
	n := len(d)
	if len(other) > n {
		n = len(other)
	}
	out := make(Dense, n)
	for i := 0; i < n; i++ {
		var a, b float64
		if i < len(d) {
			a = d[i]
		}
		if i < len(other) {
			b = other[i]
		}
		out[i] = op(a, b)
	}
	return out
}
