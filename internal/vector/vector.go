// Package vector provides the sparse and dense vector kinds used for ranking
// and feedback, together with cosine similarity.
//
// All arithmetic walks components in ascending index order, so results are
// reproducible bit for bit across runs and across argument orders.
package vector

import "math"

// Vector is the minimal contract needed for cosine similarity.
// V is the concrete vector kind, which keeps sparse and dense vectors from
// ever being compared with each other.
type Vector[V any] interface {
	Dot(other V) float64
	Norm() float64
}

// Algebra extends Vector with the linear operations needed by relevance feedback.
type Algebra[V any] interface {
	Vector[V]
	Add(other V) V
	Sub(other V) V
	Scale(factor float64) V
	Div(divisor float64) V
}

// Cosine returns dot(a, b) / (‖a‖ * ‖b‖). A zero norm on either side yields 0.
// The result is clamped into [-1, 1] so rounding never produces a score above 1.
func Cosine[V Vector[V]](a, b V) float64 {
	denominator := a.Norm() * b.Norm()
	if denominator == 0 {
		return 0
	}
	score := a.Dot(b) / denominator
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

func sqrtSumSquares(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v * v
	}
	return math.Sqrt(sum)
}
