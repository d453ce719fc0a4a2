package qevolve

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// paramPattern matches a single parameter value: numbers, pi expressions, or combinations.
// Examples: "1.5707", "pi", "pi/2", "3*pi/4", "-pi", "-2*pi/3", "3.14e-2"
const paramPattern = `-?(?:\d*\.?\d*\*?pi(?:/\d+\.?\d*)?|\d+\.?\d*(?:[eE][+\-]?\d+)?)`

// piExprRegex matches expressions like: pi, 2pi, 2*pi, pi/2, 3pi/4, 3*pi/4, -pi, -pi/2, -3*pi/4
var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// parseParamExpr parses a single parameter expression, supporting plain numbers and pi expressions.
// Returns the parsed float64 value and true on success, or 0 and false on failure.
//
// Supported formats:
//   - Plain numbers: "1.5707", "3.14", "-0.5"
//   - Pi constant: "pi"
//   - Pi fractions: "pi/2", "pi/4", "pi/3"
//   - Coefficients: "2pi", "2*pi", "3pi/4", "3*pi/4"
//   - Negative: "-pi", "-pi/2", "-3*pi/4"
func parseParamExpr(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Try plain number first
	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return val, true
	}

	// Try pi expression
	s = strings.ToLower(s)
	if matches := piExprRegex.FindStringSubmatch(s); matches != nil {
		negative := matches[1] == "-"
		coeffStr := matches[2]
		denomStr := matches[3]

		coeff := 1.0
		if coeffStr != "" {
			var err error
			coeff, err = strconv.ParseFloat(coeffStr, 64)
			if err != nil {
				return 0, false
			}
		}

		result := coeff * math.Pi

		if denomStr != "" {
			denom, err := strconv.ParseFloat(denomStr, 64)
			if err != nil || denom == 0 {
				return 0, false
			}
			result /= denom
		}

		if negative {
			result = -result
		}
		return result, true
	}

	return 0, false
}

// formatParam formats a float64 parameter value, using pi notation when the value
// is a small rational multiple k*pi/d (d <= 8, |k| <= 2d). Anything else is printed
// in the shortest form that parses back to the same float64.
func formatParam(val float64) string {
	for d := 1; d <= 8; d++ {
		k := math.Round(val * float64(d) / math.Pi)
		if k == 0 || math.Abs(k) > float64(2*d) {
			continue
		}
		if math.Abs(val-k*math.Pi/float64(d)) > 1e-10 {
			continue
		}
		return piString(int(k), d)
	}
	return formatFloat(val)
}

func piString(k, d int) string {
	sign := ""
	if k < 0 {
		sign, k = "-", -k
	}
	num := "pi"
	if k != 1 {
		num = fmt.Sprintf("%d*pi", k)
	}
	if d == 1 {
		return sign + num
	}
	return fmt.Sprintf("%s%s/%d", sign, num, d)
}

// formatAngle formats a gate parameter, using pi notation for numeric values and
// the expression string otherwise.
func formatAngle(e Expr) string {
	if v, ok := e.Value(); ok {
		return formatParam(v)
	}
	return strings.ReplaceAll(e.String(), " ", "")
}
