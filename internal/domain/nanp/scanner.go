package nanp

import (
	"iter"
	"unicode/utf8"

	"github.com/segmentio/asm/ascii"
)

// runes walks text one character at a time. Pure ASCII input is walked byte
// by byte; anything else is decoded as UTF-8.
func runes(text string) iter.Seq[rune] {
	if ascii.ValidString(text) {
		return func(yield func(rune) bool) {
			for i := 0; i < len(text); i++ {
				if !yield(rune(text[i])) {
					return
				}
			}
		}
	}
	return func(yield func(rune) bool) {
		for _, c := range text {
			if !yield(c) {
				return
			}
		}
	}
}

// charCount is the number of characters in text, not bytes.
func charCount(text string) int {
	if ascii.ValidString(text) {
		return len(text)
	}
	return utf8.RuneCountInString(text)
}

// Windows streams every completed ten character window in text together with
// whether it forms a valid NANP number. Only digits count; the window is
// cleared after each completed window whether or not it was valid.
func Windows(text string) iter.Seq2[string, bool] {
	return func(yield func(string, bool) bool) {
		w := newWindow(extractRules, DialedLength)
		for c := range runes(text) {
			if !w.push(c) || !w.full() {
				continue
			}
			candidate := w.String()
			w.reset()
			if !yield(candidate, ValidDialedNumber(candidate)) {
				return
			}
		}
	}
}

// collect runs every character of text through a window of the given size and
// returns the kept characters, or false when more than size qualified.
func collect(text string, r rules, size int) (string, bool) {
	w := newWindow(r, size)
	for c := range runes(text) {
		w.push(c)
		if w.overflow > 0 {
			return "", false
		}
	}
	return w.String(), true
}
