package sdkconfig

import (
	"strings"

	perrors "github.com/matzehuels/robopom/pkg/errors"
)

// Order selects how platform strings are compared.
type Order int

const (
	// OrderLexical compares platform strings byte by byte.
	OrderLexical Order = iota
	// OrderNumeric compares '.', '-' and '_' separated segments, numerically
	// where both segments are all digits.
	OrderNumeric
)

// ParseOrder maps "lexical" or "numeric" to an [Order]. Empty means lexical.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lexical":
		return OrderLexical, nil
	case "numeric":
		return OrderNumeric, nil
	default:
		return OrderLexical, perrors.New(perrors.ErrCodeInvalidInput, "unknown sdk order %q (want lexical or numeric)", s)
	}
}

func (o Order) String() string {
	if o == OrderNumeric {
		return "numeric"
	}
	return "lexical"
}

func (o Order) compare() func(a, b string) int {
	if o == OrderNumeric {
		return compareNumeric
	}
	return strings.Compare
}

func splitSegments(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	})
}

// compareNumeric orders "4.4_r1" < "5.0.0_r2" < "10.0.0_r1". A digit-only
// segment sorts below a non-numeric one at the same position.
func compareNumeric(a, b string) int {
	as, bs := splitSegments(a), splitSegments(b)
	for i := range min(len(as), len(bs)) {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return strings.Compare(a, b)
}

func compareSegment(a, b string) int {
	an, bn := isDigits(a), isDigits(b)
	switch {
	case an && bn:
		a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			if len(a) < len(b) {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	case an:
		return -1
	case bn:
		return 1
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
