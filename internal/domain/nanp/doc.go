// Package nanp finds, validates and classifies North American Numbering Plan
// numbers in free text. Every function is pure and safe for concurrent use.
package nanp
