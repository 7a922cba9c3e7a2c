package nanp

import (
	"iter"
	"slices"

	"github.com/davidleathers/phonenumbers-na/internal/domain/values"
)

// DialedLength is the digit count of a full NANP number without the leading 1.
const DialedLength = 10

// DialedNumbers yields each valid ten digit number found in text, in order.
func DialedNumbers(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for candidate, ok := range Windows(text) {
			if ok && !yield(candidate) {
				return
			}
		}
	}
}

// PhoneNumbers yields a classified record for each number DialedNumbers finds.
func PhoneNumbers(text string) iter.Seq[values.PhoneNumber] {
	return func(yield func(values.PhoneNumber) bool) {
		for dialed := range DialedNumbers(text) {
			p, ok := TryParseExact(dialed)
			if ok && !yield(p) {
				return
			}
		}
	}
}

// ExtractDialedNumbers collects DialedNumbers. The result is never nil.
func ExtractDialedNumbers(text string) []string {
	return slices.AppendSeq(make([]string, 0), DialedNumbers(text))
}

// ExtractPhoneNumbers collects PhoneNumbers. The result is never nil.
func ExtractPhoneNumbers(text string) []values.PhoneNumber {
	return slices.AppendSeq(make([]values.PhoneNumber, 0), PhoneNumbers(text))
}

// IsValidPhoneNumber reports whether text holds exactly one NANP number once
// separators are dropped, letters are mapped to keypad digits and a leading 1
// is removed.
func IsValidPhoneNumber(text string) bool {
	_, ok := dialedFrom(text)
	return ok
}

// dialedFrom reduces text to a valid ten digit dialed number.
func dialedFrom(text string) (string, bool) {
	if charCount(text) < DialedLength {
		return "", false
	}
	dialed, ok := collect(text, singleRules, DialedLength)
	if !ok || len(dialed) != DialedLength {
		return "", false
	}
	return dialed, ValidDialedNumber(dialed)
}
