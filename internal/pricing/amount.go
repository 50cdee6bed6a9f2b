package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a whole-rupee price. Catalog prices are converted to Amount once,
// on ingestion, and never carried around in their display form.
type Amount int64

// ToAmount converts a catalog price into an Amount.
//
// Numbers are taken as they are (fractions truncated). Strings such as "₹2,500"
// or "2500.00" keep only their digits up to the decimal point. Anything that
// cannot be read as a price yields 0.
func ToAmount(v any) Amount {
	switch p := v.(type) {
	case nil:
		return 0
	case Amount:
		return p
	case int:
		return Amount(p)
	case int8:
		return Amount(p)
	case int16:
		return Amount(p)
	case int32:
		return Amount(p)
	case int64:
		return Amount(p)
	case uint:
		return Amount(p)
	case uint8:
		return Amount(p)
	case uint16:
		return Amount(p)
	case uint32:
		return Amount(p)
	case uint64:
		if p > math.MaxInt64 {
			return 0
		}
		return Amount(p)
	case float32:
		return fromFloat(float64(p))
	case float64:
		return fromFloat(p)
	case json.Number:
		return parseString(p.String())
	case string:
		return parseString(p)
	default:
		return 0
	}
}

func fromFloat(f float64) Amount {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return Amount(f)
}

func parseString(s string) Amount {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	// a dot before the first digit belongs to a prefix like "Rs."
	whole, _, _ := strings.Cut(strings.TrimLeft(b.String(), "."), ".")
	if whole == "" {
		return 0
	}
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0
	}
	return Amount(n)
}

// Format renders an amount the way the storefront displays it, e.g. "₹2,500".
func Format(a Amount) string {
	sign := ""
	n := int64(a)
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "₹" + b.String()
}
