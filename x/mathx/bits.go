package mathx

import "math/bits"

// ClearRightmostSetBit clears the least significant bit that is set.
func ClearRightmostSetBit(n uint32) uint32 {
	return n & (n - 1)
}

// IsPowerOfTwo reports whether n has exactly one bit set. n == 0 is false.
func IsPowerOfTwo(n uint32) bool {
	return n != 0 && ClearRightmostSetBit(n) == 0
}

// RightmostSetBit returns the bit position of the least significant set bit.
// n == 0 returns 0.
func RightmostSetBit(n uint32) uint8 {
	if n == 0 {
		return 0
	}
	return uint8(bits.TrailingZeros32(n))
}
