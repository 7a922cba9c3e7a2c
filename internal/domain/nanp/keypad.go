package nanp

// Wildcard stands in for a character with no keypad digit. It never parses as
// a digit, so any window holding it is rejected.
const Wildcard byte = '*'

var keypad = [26]byte{
	'2', '2', '2', // abc
	'3', '3', '3', // def
	'4', '4', '4', // ghi
	'5', '5', '5', // jkl
	'6', '6', '6', // mno
	'7', '7', '7', '7', // pqrs
	'8', '8', '8', // tuv
	'9', '9', '9', '9', // wxyz
}

// LetterToDigit maps a character to the keypad digit printed with it. ASCII
// digits map to themselves and '+' maps to '0'. Everything else yields Wildcard.
func LetterToDigit(c rune) byte {
	switch {
	case c >= '0' && c <= '9':
		return byte(c)
	case c >= 'a' && c <= 'z':
		return keypad[c-'a']
	case c >= 'A' && c <= 'Z':
		return keypad[c-'A']
	case c == '+':
		return '0'
	}
	return Wildcard
}
