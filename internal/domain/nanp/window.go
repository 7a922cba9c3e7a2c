package nanp

import "unicode"

// rules decide which characters count toward a window.
type rules struct {
	// mapLetters appends the keypad digit for letters instead of skipping them.
	mapLetters bool
	// dropLeadingZero skips '0' while the window is empty, as '1' always is.
	dropLeadingZero bool
}

var (
	extractRules   = rules{}
	singleRules    = rules{mapLetters: true}
	shortCodeRules = rules{mapLetters: true, dropLeadingZero: true}
)

// window accumulates qualifying characters up to a fixed capacity.
type window struct {
	rules rules
	buf   []byte
	size  int
	// overflow counts qualifying characters seen after the window was full.
	overflow int
}

func newWindow(r rules, size int) *window {
	return &window{rules: r, buf: make([]byte, 0, size), size: size}
}

// push offers one character and reports whether it was kept.
func (w *window) push(c rune) bool {
	b, ok := w.qualify(c)
	if !ok {
		return false
	}
	if len(w.buf) == w.size {
		w.overflow++
		return true
	}
	w.buf = append(w.buf, b)
	return true
}

func (w *window) qualify(c rune) (byte, bool) {
	empty := len(w.buf) == 0
	switch {
	case c >= '0' && c <= '9':
		if empty && (c == '1' || (c == '0' && w.rules.dropLeadingZero)) {
			return 0, false
		}
		return byte(c), true
	case c <= unicode.MaxASCII:
		if w.rules.mapLetters && isASCIILetter(c) {
			return LetterToDigit(c), true
		}
		return 0, false
	case unicode.IsDigit(c):
		return Wildcard, true
	case w.rules.mapLetters && unicode.IsLetter(c):
		return LetterToDigit(c), true
	}
	return 0, false
}

func (w *window) full() bool { return len(w.buf) == w.size }

func (w *window) String() string { return string(w.buf) }

func (w *window) reset() {
	w.buf = w.buf[:0]
	w.overflow = 0
}

func isASCIILetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
