package utils

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ParseNumeric reports whether an identifier reads as a finite number. "NaN" and
// "Inf" are not numbers here
func ParseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CompareIdentifiers orders two identifiers numerically when both parse as numbers,
// otherwise lexicographically. Numerically equal identifiers ("7", "007") fall back to
// byte order so the result is total
func CompareIdentifiers(a, b string) int {
	fa, okA := ParseNumeric(a)
	fb, okB := ParseNumeric(b)
	if okA && okB {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
	}
	return strings.Compare(a, b)
}

// SortIdentifiers sorts identifiers in place using CompareIdentifiers
func SortIdentifiers(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return CompareIdentifiers(ids[i], ids[j]) < 0
	})
}

// SortForDisplay sorts winners numerically when every one of them is numeric,
// lexicographically otherwise
func SortForDisplay(ids []string) {
	for _, id := range ids {
		if _, ok := ParseNumeric(id); !ok {
			sort.Strings(ids)
			return
		}
	}
	SortIdentifiers(ids)
}

// PadNumber formats n with leading zeros up to width digits
func PadNumber(n, width int) string {
	if width <= 0 {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%0*d", width, n)
}

// SequentialIdentifiers returns the zero-padded numbers start..end inclusive
func SequentialIdentifiers(start, end, width int) []string {
	if end < start {
		return []string{}
	}
	ids := make([]string, 0, end-start+1)
	for n := start; n <= end; n++ {
		ids = append(ids, PadNumber(n, width))
	}
	return ids
}
