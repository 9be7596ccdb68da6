package mathx

// Unsigned covers the integer widths used in register maths.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// divWithRound computes (a + round) / b, falling back to plain truncated
// division when a + round wraps around. The fallback keeps the result sane
// for dividends near the top of the type's range.
func divWithRound[T Unsigned](a, b, round T) T {
	sum := a + round
	if sum < a {
		return a / b
	}
	return sum / b
}

// CeilDiv returns ceil(a/b). b == 0 yields 0.
func CeilDiv[T Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return divWithRound(a, b, b-1)
}

// RoundDiv returns a/b rounded to nearest, halves up. b == 0 yields 0.
func RoundDiv[T Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return divWithRound(a, b, b/2)
}
