// Package natsort implements numeric-aware string comparison.
//
// Runs of digits are compared by numeric value instead of byte order,
// so "DC2" sorts before "DC10" and lot "L9" before "L10". Date codes
// and lot numbers are free-form text, which makes plain lexicographic
// order produce surprising pick sequences.
package natsort

import "sort"

// Compare returns -1, 0 or 1 comparing a and b with numeric-aware
// ordering. Digit runs are compared as integers, everything else
// byte-wise. Leading zeros do not affect the numeric value, so
// "007" and "7" compare equal.
func Compare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			// Consume both digit runs and compare numerically.
			ia, ra := digitRun(a, i)
			ib, rb := digitRun(b, j)
			if c := compareDigits(ra, rb); c != 0 {
				return c
			}
			i, j = ia, ib
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	}
	return 0
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Strings sorts ss in place using numeric-aware order.
func Strings(ss []string) {
	sort.Slice(ss, func(i, j int) bool { return Less(ss[i], ss[j]) })
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// digitRun returns the index past the digit run starting at i and the
// run itself with leading zeros stripped.
func digitRun(s string, i int) (int, string) {
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	run := s[start:i]
	for len(run) > 1 && run[0] == '0' {
		run = run[1:]
	}
	return i, run
}

// compareDigits compares two digit strings without leading zeros.
func compareDigits(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
