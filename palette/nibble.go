package palette

// ReservedCode is the hardware code no palette slot maps to.
const ReservedCode = 0x4

var nibbleCodes = [Size]byte{0x0, 0x1, 0x2, 0x3, 0x5, 0x6}

// Code returns the 4-bit panel code of palette index i. Indices outside the
// palette are sent as black (0x0); the quantizer never produces them.
func Code(i uint8) byte {
	if int(i) >= Size {
		return 0x0
	}
	return nibbleCodes[i]
}

// Index reverses Code. ok is false for the reserved code and for codes no
// slot uses.
func Index(code byte) (i uint8, ok bool) {
	for n, c := range nibbleCodes {
		if c == code {
			return uint8(n), true
		}
	}
	return 0, false
}
