// Package bitcodec converts bytes to and from their eight bits, most
// significant bit first.
package bitcodec

// Width is the number of bits in an encoded byte.
const Width = 8

// Encode returns the bits of b, most significant first.
func Encode(b byte) [Width]bool {
	var bits [Width]bool
	for i := range bits {
		bits[i] = Bit(b, i)
	}
	return bits
}

// Decode is the inverse of Encode.
func Decode(bits [Width]bool) byte {
	var b byte
	for _, bit := range bits {
		b <<= 1
		if bit {
			b |= 1
		}
	}
	return b
}

// Bit returns bit i of b where i == 0 is the most significant bit.
func Bit(b byte, i int) bool {
	return b&(1<<(Width-1-i)) != 0
}
