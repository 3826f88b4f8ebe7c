package input

import (
	"benritz/bonds/internal/types"
	"regexp"
	"strconv"
	"strings"
)

var couponRe = regexp.MustCompile(`^(\d+(?:\.\d+)?(?:\s+\d+\/\d+)?|\d+\/\d+|\d*[¼½¾])\s*%?$`)

// parseCouponPercentage parses a coupon percentage in the following formats
// 5, 5%, 4.25%, 0 5/8%, 3/4%, 3½%
//
//	s: coupon cell
//
// Returns:
//
//	Coupon percentage
func parseCouponPercentage(s string) (float64, error) {
	match := couponRe.FindStringSubmatch(strings.TrimSpace(s))

	if len(match) < 2 {
		return 0, types.ErrInvalidCouponRate
	}

	m := match[1]

	// convert ½, ¼, ¾ suffixes
	trimLast := func(s string) string {
		r := []rune(s)
		return string(r[0 : len(r)-1])
	}
	if strings.HasSuffix(m, "½") {
		m = trimLast(m) + " 1/2"
	} else if strings.HasSuffix(m, "¼") {
		m = trimLast(m) + " 1/4"
	} else if strings.HasSuffix(m, "¾") {
		m = trimLast(m) + " 3/4"
	}
	m = strings.TrimSpace(m)

	if !strings.Contains(m, "/") {
		val, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, types.ErrInvalidCouponRate
		}
		return val, nil
	}

	whole := 0.0
	parts := strings.Fields(m)

	switch len(parts) {
	case 2:
		w, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, types.ErrInvalidCouponRate
		}
		whole = w
		parts = parts[1:]
	case 1:
	default:
		return 0, types.ErrInvalidCouponRate
	}

	fractionParts := strings.Split(parts[0], "/")
	if len(fractionParts) != 2 {
		return 0, types.ErrInvalidCouponRate
	}
	num, err := strconv.Atoi(fractionParts[0])
	if err != nil {
		return 0, types.ErrInvalidCouponRate
	}
	den, err := strconv.Atoi(fractionParts[1])
	if err != nil || den == 0 {
		return 0, types.ErrInvalidCouponRate
	}

	return whole + float64(num)/float64(den), nil
}
