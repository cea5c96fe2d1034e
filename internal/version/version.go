// Package version implements the target-version values that drive
// conditional compilation of stub declarations. Versions are ordered
// sequences of non-negative integers compared lexicographically, with the
// shorter side zero-padded on the right.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

type Version []int

// Parse reads a dotted version string such as "3.8" or "2.7.18".
func Parse(s string) (Version, error) {
	if s == "" {
		return nil, fmt.Errorf("empty version")
	}
	parts := strings.Split(s, ".")
	v := make(Version, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version component %q in %q", part, s)
		}
		v = append(v, n)
	}
	return v, nil
}

func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Compare returns -1, 0 or 1. Shorter versions are zero-padded on the
// right, so (3,) == (3, 0) and (3,) < (3, 1).
func Compare(a, b Version) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Evaluate applies a comparison operator between two versions.
func Evaluate(left Version, op string, right Version) (bool, error) {
	c := Compare(left, right)
	switch op {
	case "<":
		return c < 0, nil
	case ">":
		return c > 0, nil
	case "<=":
		return c <= 0, nil
	case ">=":
		return c >= 0, nil
	case "==":
		return c == 0, nil
	case "!=":
		return c != 0, nil
	}
	return false, fmt.Errorf("unknown comparison operator %q", op)
}
