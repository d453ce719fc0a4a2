package qevolve

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Expr is a real-valued polynomial over named symbols with float64 coefficients.
// It carries evolution times, term coefficients and gate angles, which are either
// plain numbers or symbolic expressions to be bound later.
//
// The zero value is the number 0. Expr values are immutable; every operation
// returns a new value.
type Expr struct {
	// monomial key -> coefficient. The key is the sorted symbol names joined by
	// "*" (repeated for powers); "" is the constant monomial.
	terms map[string]float64
}

var symbolRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Num returns the constant expression v.
func Num(v float64) Expr {
	if v == 0 {
		return Expr{}
	}
	return Expr{terms: map[string]float64{"": v}}
}

// Symbol returns the expression consisting of the single free symbol name.
func Symbol(name string) Expr {
	return Expr{terms: map[string]float64{name: 1}}
}

// Add returns e + o.
func (e Expr) Add(o Expr) Expr {
	res := e.copyTerms(len(o.terms))
	for k, v := range o.terms {
		res[k] += v
	}
	return newExpr(res)
}

// Sub returns e - o.
func (e Expr) Sub(o Expr) Expr {
	return e.Add(o.Scale(-1))
}

// Mul returns e * o.
func (e Expr) Mul(o Expr) Expr {
	res := make(map[string]float64, len(e.terms)*len(o.terms))
	for ka, va := range e.terms {
		for kb, vb := range o.terms {
			res[mulKey(ka, kb)] += va * vb
		}
	}
	return newExpr(res)
}

// Scale returns f * e.
func (e Expr) Scale(f float64) Expr {
	res := make(map[string]float64, len(e.terms))
	for k, v := range e.terms {
		res[k] = v * f
	}
	return newExpr(res)
}

// Div returns e / f. Each coefficient is divided, not multiplied by 1/f, so
// numeric results match plain float division exactly.
func (e Expr) Div(f float64) Expr {
	res := make(map[string]float64, len(e.terms))
	for k, v := range e.terms {
		res[k] = v / f
	}
	return newExpr(res)
}

// Value returns the numeric value of e and true when e has no free symbols.
func (e Expr) Value() (float64, bool) {
	if e.IsNumeric() {
		return e.terms[""], true
	}
	return 0, false
}

// IsNumeric reports whether e contains no free symbols.
func (e Expr) IsNumeric() bool {
	for k := range e.terms {
		if k != "" {
			return false
		}
	}
	return true
}

// Subs substitutes bound values for symbols. Unbound symbols stay symbolic.
func (e Expr) Subs(bindings map[string]float64) Expr {
	res := make(map[string]float64, len(e.terms))
	for k, v := range e.terms {
		var free []string
		for _, sym := range splitKey(k) {
			if val, ok := bindings[sym]; ok {
				v *= val
			} else {
				free = append(free, sym)
			}
		}
		res[strings.Join(free, "*")] += v
	}
	return newExpr(res)
}

// Symbols returns the sorted free symbol names of e.
func (e Expr) Symbols() []string {
	var syms []string
	for k := range e.terms {
		for _, sym := range splitKey(k) {
			if !slices.Contains(syms, sym) {
				syms = append(syms, sym)
			}
		}
	}
	slices.Sort(syms)
	return syms
}

// Equal reports whether e and o are structurally identical.
func (e Expr) Equal(o Expr) bool {
	if len(e.terms) != len(o.terms) {
		return false
	}
	for k, v := range e.terms {
		if ov, ok := o.terms[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (e Expr) String() string {
	if len(e.terms) == 0 {
		return "0"
	}
	keys := make([]string, 0, len(e.terms))
	for k := range e.terms {
		keys = append(keys, k)
	}
	slices.Sort(keys) // "" sorts first

	var sb strings.Builder
	for i, k := range keys {
		v := e.terms[k]
		switch {
		case i == 0 && v < 0:
			sb.WriteString("-")
			v = -v
		case i > 0 && v < 0:
			sb.WriteString(" - ")
			v = -v
		case i > 0:
			sb.WriteString(" + ")
		}
		switch {
		case k == "":
			sb.WriteString(formatFloat(v))
		case v == 1:
			sb.WriteString(k)
		default:
			sb.WriteString(formatFloat(v) + "*" + k)
		}
	}
	return sb.String()
}

// ParseExpr parses a number (pi expressions allowed), a symbol name, or a
// product "coef*name" such as "-t" or "0.5*t".
func ParseExpr(s string) (Expr, error) {
	s = strings.TrimSpace(s)
	if v, ok := parseParamExpr(s); ok {
		return Num(v), nil
	}

	coef := 1.0
	name := s
	if i := strings.LastIndex(s, "*"); i >= 0 {
		v, ok := parseParamExpr(s[:i])
		if !ok {
			return Expr{}, fmt.Errorf("%w: invalid coefficient in %q", ErrParse, s)
		}
		coef, name = v, strings.TrimSpace(s[i+1:])
	} else if strings.HasPrefix(s, "-") {
		coef, name = -1, strings.TrimSpace(s[1:])
	}
	if !symbolRegex.MatchString(name) || strings.EqualFold(name, "pi") {
		return Expr{}, fmt.Errorf("%w: invalid expression %q", ErrParse, s)
	}
	return Symbol(name).Scale(coef), nil
}

func (e Expr) copyTerms(extra int) map[string]float64 {
	res := make(map[string]float64, len(e.terms)+extra)
	for k, v := range e.terms {
		res[k] = v
	}
	return res
}

func newExpr(terms map[string]float64) Expr {
	for k, v := range terms {
		if v == 0 {
			delete(terms, k)
		}
	}
	if len(terms) == 0 {
		return Expr{}
	}
	return Expr{terms: terms}
}

func splitKey(k string) []string {
	if k == "" {
		return nil
	}
	return strings.Split(k, "*")
}

func mulKey(a, b string) string {
	syms := append(splitKey(a), splitKey(b)...)
	slices.Sort(syms)
	return strings.Join(syms, "*")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
