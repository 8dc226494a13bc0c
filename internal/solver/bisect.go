package solver

// Bracket is a closed search interval [Lo, Hi].
type Bracket struct {
	Lo float64
	Hi float64
}

func (b Bracket) Mid() float64   { return (b.Lo + b.Hi) / 2 }
func (b Bracket) Width() float64 { return b.Hi - b.Lo }

// Bisect narrows b toward a sign change of f, assuming f is decreasing across
// the bracket: a positive f(mid) moves Lo up, anything else moves Hi down.
// It stops after maxIter halvings or once the width drops below tol, and
// returns the final bracket. Non-convergence is not an error; callers decide
// what the final bracket means.
func Bisect(b Bracket, maxIter int, tol float64, f func(float64) float64) Bracket {
	for i := 0; i < maxIter && b.Width() >= tol; i++ {
		mid := b.Mid()
		if f(mid) > 0 {
			b.Lo = mid
		} else {
			b.Hi = mid
		}
	}
	return b
}
