package numeric

import "fmt"

// Simpson integrates f over [a, b] with the composite Simpson rule on n
// equal subintervals. n must be even and positive.
func Simpson(f func(float64) float64, a, b float64, n int) (float64, error) {
	s, _, err := SimpsonPair(func(x float64) (float64, float64) {
		return f(x), 0
	}, a, b, n)
	return s, err
}

// SimpsonPair integrates two integrands in one forward sweep. Each pair
// of subintervals reuses the right end sample of the previous pair as its
// left end.
func SimpsonPair(f func(float64) (float64, float64), a, b float64, n int) (float64, float64, error) {
	if n <= 0 || n%2 != 0 {
		return 0, 0, fmt.Errorf("simpson: subinterval count must be even and positive, got %d", n)
	}

	h := (b - a) / float64(n)
	var s1, s2 float64
	left1, left2 := f(a)
	for i := 0; i < n; i += 2 {
		mid1, mid2 := f(a + float64(i+1)*h)
		right1, right2 := f(a + float64(i+2)*h)
		s1 += h * (left1 + 4*mid1 + right1) / 3
		s2 += h * (left2 + 4*mid2 + right2) / 3
		left1, left2 = right1, right2
	}
	return s1, s2, nil
}
