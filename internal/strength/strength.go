// Package strength scores password strength with the vault's 5-point heuristic.
// This is the single canonical scorer; the generator's percent bar derives from
// the same score.
package strength

import "strings"

// Labels returned by Label.
const (
	Unknown = "Unknown"
	Weak    = "Weak"
	Medium  = "Medium"
	Strong  = "Strong"
)

// symbols is the punctuation set that counts toward the score.
const symbols = `!@#$%^&*(),.?":{}|<>`

// Score returns 0..5: one point each for length >= 8 and for the presence of
// an uppercase letter, a lowercase letter, a digit, and a symbol.
func Score(password string) int {
	if password == "" {
		return 0
	}
	score := 0
	if len(password) >= 8 {
		score++
	}
	if strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		score++
	}
	if strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		score++
	}
	if strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		score++
	}
	if strings.ContainsAny(password, symbols) {
		score++
	}
	return score
}

// Label maps a password to Strong (score >= 4), Medium (3) or Weak; the empty
// password is Unknown.
func Label(password string) string {
	if password == "" {
		return Unknown
	}
	switch s := Score(password); {
	case s >= 4:
		return Strong
	case s == 3:
		return Medium
	default:
		return Weak
	}
}

// Percent maps the score onto a 0..100 meter for display.
func Percent(password string) int {
	return Score(password) * 20
}
