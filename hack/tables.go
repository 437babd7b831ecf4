package hack

import "strconv"

// compBits maps a computation to its a-bit and six control bits.
var compBits = map[string]uint16{
	"0":   0b0101010,
	"1":   0b0111111,
	"-1":  0b0111010,
	"D":   0b0001100,
	"A":   0b0110000,
	"!D":  0b0001101,
	"!A":  0b0110001,
	"-D":  0b0001111,
	"-A":  0b0110011,
	"D+1": 0b0011111,
	"A+1": 0b0110111,
	"D-1": 0b0001110,
	"A-1": 0b0110010,
	"D+A": 0b0000010,
	"D-A": 0b0010011,
	"A-D": 0b0000111,
	"D&A": 0b0000000,
	"D|A": 0b0010101,

	"M":   0b1110000,
	"!M":  0b1110001,
	"-M":  0b1110011,
	"M+1": 0b1110111,
	"M-1": 0b1110010,
	"D+M": 0b1000010,
	"D-M": 0b1010011,
	"M-D": 0b1000111,
	"D&M": 0b1000000,
	"D|M": 0b1010101,

	// Commutative spellings
	"A+D": 0b0000010,
	"M+D": 0b1000010,
	"A&D": 0b0000000,
	"M&D": 0b1000000,
	"A|D": 0b0010101,
	"M|D": 0b1010101,
	"1+D": 0b0011111,
	"1+A": 0b0110111,
	"1+M": 0b1110111,
}

var jumpBits = map[string]uint16{
	"":    0b000,
	"JGT": 0b001,
	"JEQ": 0b010,
	"JGE": 0b011,
	"JLT": 0b100,
	"JNE": 0b101,
	"JLE": 0b110,
	"JMP": 0b111,
}

// Bits of the destination field.
const (
	DestM uint16 = 0b001
	DestD uint16 = 0b010
	DestA uint16 = 0b100
)

// destBits accepts any ordering of the letters A, D and M, each at most once.
func destBits(dest string) (uint16, bool) {
	var bits uint16
	for i := 0; i < len(dest); i++ {
		var bit uint16
		switch dest[i] {
		case 'A':
			bit = DestA
		case 'D':
			bit = DestD
		case 'M':
			bit = DestM
		default:
			return 0, false
		}
		if bits&bit != 0 {
			return 0, false
		}
		bits |= bit
	}
	return bits, true
}

// PredefinedSymbols returns the symbols every program can reference.
func PredefinedSymbols() map[string]int {
	symbols := map[string]int{
		"SP":     0,
		"LCL":    1,
		"ARG":    2,
		"THIS":   3,
		"THAT":   4,
		"SCREEN": 16384,
		"KBD":    24576,
	}
	for i := 0; i < 16; i++ {
		symbols["R"+strconv.Itoa(i)] = i
	}
	return symbols
}
