package datastructure

const (
	EPS = 1e-6
)

// Le. a <= b up to EPS, used by the searches to skip relaxations that do not improve a label.
func Le(a, b float64) bool {
	return a <= b+EPS
}
