package qevolve

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Axis is a single-qubit Pauli operator.
type Axis byte

const (
	X Axis = 'X'
	Y Axis = 'Y'
	Z Axis = 'Z'
)

func (a Axis) String() string { return string(a) }

// PauliFactor is one Pauli operator bound to a qubit.
type PauliFactor struct {
	Qubit int
	Axis  Axis
}

// PauliTerm is a Pauli string with a coefficient. An empty factor list is the
// identity term.
type PauliTerm struct {
	factors     []PauliFactor
	Coefficient Expr
}

// Operator is a weighted sum of Pauli strings. Terms must return the same terms in
// the same order every time it is called on a given value: constructors iterate
// an operator several times and pair results by position.
type Operator interface {
	Terms() []PauliTerm
}

// NewPauliTerm builds a term from its factors, kept in the given order.
func NewPauliTerm(coefficient Expr, factors ...PauliFactor) (PauliTerm, error) {
	seen := make(map[int]bool, len(factors))
	for _, f := range factors {
		if f.Qubit < 0 {
			return PauliTerm{}, fmt.Errorf("%w: negative qubit index %d", ErrMalformedTerm, f.Qubit)
		}
		switch f.Axis {
		case X, Y, Z:
		default:
			return PauliTerm{}, fmt.Errorf("%w: invalid axis %q", ErrMalformedTerm, rune(f.Axis))
		}
		if seen[f.Qubit] {
			return PauliTerm{}, fmt.Errorf("%w: qubit %d repeated", ErrMalformedTerm, f.Qubit)
		}
		seen[f.Qubit] = true
	}
	return PauliTerm{factors: slices.Clone(factors), Coefficient: coefficient}, nil
}

// MustPauliTerm is like NewPauliTerm but panics on invalid input.
func MustPauliTerm(coefficient Expr, factors ...PauliFactor) PauliTerm {
	t, err := NewPauliTerm(coefficient, factors...)
	if err != nil {
		panic(err)
	}
	return t
}

// Factors returns a copy of the term's Pauli factors.
func (t PauliTerm) Factors() []PauliFactor {
	return slices.Clone(t.factors)
}

// IsIdentity reports whether the term acts on no qubits.
func (t PauliTerm) IsIdentity() bool {
	return len(t.factors) == 0
}

// Terms implements Operator: a term is an operator with exactly one term.
func (t PauliTerm) Terms() []PauliTerm {
	return []PauliTerm{t}
}

// RealCoefficient returns the coefficient as a real number, failing for symbolic
// coefficients.
func (t PauliTerm) RealCoefficient() (float64, error) {
	v, ok := t.Coefficient.Value()
	if !ok {
		return 0, fmt.Errorf("%w: offending term %s", ErrNonNumericCoefficient, t)
	}
	return v, nil
}

// NumQubits returns one more than the highest qubit index the term touches.
func (t PauliTerm) NumQubits() int {
	n := 0
	for _, f := range t.factors {
		n = max(n, f.Qubit+1)
	}
	return n
}

// String renders the term in the "coef [X0 Y1]" form read by ParseQubitOperator.
func (t PauliTerm) String() string {
	parts := make([]string, len(t.factors))
	for i, f := range t.factors {
		parts[i] = fmt.Sprintf("%s%d", f.Axis, f.Qubit)
	}
	coef := t.Coefficient.String()
	if !t.Coefficient.IsNumeric() && strings.ContainsAny(coef, " ") {
		coef = "(" + coef + ")"
	}
	return fmt.Sprintf("%s [%s]", coef, strings.Join(parts, " "))
}

// QubitOperator is an ordered sum of Pauli terms. Repeated Pauli strings are kept
// as separate terms.
type QubitOperator struct {
	terms []PauliTerm
}

// NewQubitOperator returns the sum of the given terms in order.
func NewQubitOperator(terms ...PauliTerm) QubitOperator {
	return QubitOperator{terms: slices.Clone(terms)}
}

// Terms implements Operator.
func (op QubitOperator) Terms() []PauliTerm {
	return slices.Clone(op.terms)
}

// Len returns the number of terms.
func (op QubitOperator) Len() int {
	return len(op.terms)
}

// Add returns op + other, other's terms following op's.
func (op QubitOperator) Add(other Operator) QubitOperator {
	return QubitOperator{terms: append(slices.Clone(op.terms), other.Terms()...)}
}

// NumQubits returns the register size needed to act with the operator.
func (op QubitOperator) NumQubits() int {
	return operatorQubits(op)
}

func (op QubitOperator) String() string {
	if len(op.terms) == 0 {
		return "0"
	}
	parts := make([]string, len(op.terms))
	for i, t := range op.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func operatorQubits(op Operator) int {
	n := 0
	for _, t := range op.Terms() {
		n = max(n, t.NumQubits())
	}
	return n
}

// Pre-compiled regexps for operator parsing.
var (
	termRegex    = regexp.MustCompile(`^(.*?)\s*\[([^\]]*)\]$`)
	factorRegex  = regexp.MustCompile(`^([XYZxyz])(\d+)$`)
	complexRegex = regexp.MustCompile(`^\(\s*([^()]+)\s*([+-])\s*([0-9.eE+-]+)j\s*\)$`)
)

// ParseQubitOperator parses a sum of Pauli terms written as
//
//	0.5 [Z0 X1] + 0.25 [Y2] - [Z0] + a [X3] + (1.5+0j) []
//
// A coefficient is a number, a pi expression, a symbol, or a complex literal with
// zero imaginary part. A missing coefficient means 1.
func ParseQubitOperator(s string) (QubitOperator, error) {
	var op QubitOperator
	for _, chunk := range splitTerms(s) {
		term, err := parseTerm(chunk.text)
		if err != nil {
			return QubitOperator{}, err
		}
		if chunk.negative {
			term.Coefficient = term.Coefficient.Scale(-1)
		}
		op.terms = append(op.terms, term)
	}
	return op, nil
}

type termChunk struct {
	text     string
	negative bool
}

// splitTerms splits on top-level '+'/'-' that follow a closing bracket.
func splitTerms(s string) []termChunk {
	var chunks []termChunk
	var cur strings.Builder
	negative := false
	afterBracket := false
	for _, r := range s {
		if afterBracket && (r == '+' || r == '-') {
			chunks = append(chunks, termChunk{text: strings.TrimSpace(cur.String()), negative: negative})
			cur.Reset()
			negative = r == '-'
			afterBracket = false
			continue
		}
		if r == ']' {
			afterBracket = true
		} else if r != ' ' && r != '\t' && r != '\n' {
			afterBracket = false
		}
		cur.WriteRune(r)
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		chunks = append(chunks, termChunk{text: rest, negative: negative})
	}
	return chunks
}

func parseTerm(s string) (PauliTerm, error) {
	matches := termRegex.FindStringSubmatch(s)
	if matches == nil {
		return PauliTerm{}, fmt.Errorf("%w: term %q has no [ ] factor list", ErrParse, s)
	}
	coef, err := parseCoefficient(matches[1])
	if err != nil {
		return PauliTerm{}, err
	}
	var factors []PauliFactor
	for _, f := range strings.Fields(matches[2]) {
		fm := factorRegex.FindStringSubmatch(f)
		if fm == nil {
			return PauliTerm{}, fmt.Errorf("%w: invalid Pauli factor %q", ErrParse, f)
		}
		q, _ := strconv.Atoi(fm[2])
		factors = append(factors, PauliFactor{Qubit: q, Axis: Axis(strings.ToUpper(fm[1])[0])})
	}
	return NewPauliTerm(coef, factors...)
}

func parseCoefficient(s string) (Expr, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "+":
		return Num(1), nil
	case "-":
		return Num(-1), nil
	}
	if m := complexRegex.FindStringSubmatch(s); m != nil {
		re, ok := parseParamExpr(m[1])
		if !ok {
			return Expr{}, fmt.Errorf("%w: invalid complex coefficient %q", ErrParse, s)
		}
		im, err := strconv.ParseFloat(m[3], 64)
		if err != nil || im != 0 {
			return Expr{}, fmt.Errorf("%w: coefficient %q must be real", ErrParse, s)
		}
		return Num(re), nil
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	return ParseExpr(s)
}
