package domain

// BitsPerByte is the number of bit notifications that make up one byte.
const BitsPerByte = 8

// BitAccumulator shifts bits in MSB first until a byte is complete.
// The zero value is an empty accumulator.
type BitAccumulator struct {
	value byte
	count uint8
}

// Push shifts bit into the register. When the eighth bit arrives it returns
// the assembled byte with full set to true and resets itself.
func (a *BitAccumulator) Push(bit bool) (b byte, full bool) {
	a.value <<= 1
	if bit {
		a.value |= 1
	}
	a.count++
	if a.count < BitsPerByte {
		return 0, false
	}
	b = a.value
	a.Reset()
	return b, true
}

// Count returns the number of bits held, 0 through 7.
func (a *BitAccumulator) Count() int {
	return int(a.count)
}

// Reset discards any partial byte.
func (a *BitAccumulator) Reset() {
	a.value = 0
	a.count = 0
}
