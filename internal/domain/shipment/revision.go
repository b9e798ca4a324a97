package shipment

import (
	"strconv"
	"strings"
)

// A pick-order number of the form "<base>-<n>" (n >= 2) is the n-th
// revision of order "<base>". Confirming a revision supersedes its
// predecessor: the predecessor is restocked and cancelled in the same
// transaction, so at most one deduction per base number is ever live.

// IsRevision reports whether pickOrderNo carries a revision suffix.
func IsRevision(pickOrderNo string) bool {
	return strings.Contains(pickOrderNo, "-")
}

// revisionIndex returns n for "<base>-<n>", or 0 when the suffix is
// missing or not a number.
func revisionIndex(pickOrderNo string) int {
	_, suffix, found := strings.Cut(pickOrderNo, "-")
	if !found {
		return 0
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 2 {
		return 0
	}
	return n
}

// PredecessorNo returns the pick-order number superseded by this
// revision: the bare base for revision 2, "<base>-<n-1>" otherwise.
// ok is false when pickOrderNo is not a well-formed revision.
func PredecessorNo(pickOrderNo string) (string, bool) {
	base, _, _ := strings.Cut(pickOrderNo, "-")
	n := revisionIndex(pickOrderNo)
	if n == 0 {
		return "", false
	}
	if n == 2 {
		return base, true
	}
	return base + "-" + strconv.Itoa(n-1), true
}

// NextRevisionNo returns the number the next revision of pickOrderNo
// gets: "<base>-2" after the original, "<base>-<n+1>" after revision n.
func NextRevisionNo(pickOrderNo string) string {
	base, _, _ := strings.Cut(pickOrderNo, "-")
	if n := revisionIndex(pickOrderNo); n > 0 {
		return base + "-" + strconv.Itoa(n+1)
	}
	return base + "-2"
}

func formatBase(number int64) string {
	return strconv.FormatInt(number, 10)
}
