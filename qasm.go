package qevolve

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex      = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	singleGateParamRegex = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+q\[(\d+)\];?$`)
	twoQubitRegex        = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	qregRegex            = regexp.MustCompile(`qreg\s+(\w+)\[(\d+)\]`)
)

var (
	qasmSingleGates   = map[string]bool{"H": true, "X": true, "Y": true, "Z": true}
	qasmRotationGates = map[string]bool{"RX": true, "RY": true, "RZ": true}
	qasmTwoQubitGates = map[string]bool{"CX": true, "CZ": true, "SWAP": true}
)

// ToQASM generates OpenQASM 2.0 output for the circuit. Numeric angles use pi
// notation where possible; symbolic angles are written as their expression.
func (c Circuit) ToQASM() string {
	numQubits := max(c.NumQubits(), 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n\n", numQubits)

	for _, gate := range c.Gates {
		gateType := strings.ToLower(gate.Type)
		switch {
		case gate.Control >= 0:
			fmt.Fprintf(&sb, "%s q[%d], q[%d];\n", gateType, gate.Control, gate.Target)
		case len(gate.Params) == 1:
			fmt.Fprintf(&sb, "%s(%s) q[%d];\n", gateType, formatAngle(gate.Params[0]), gate.Target)
		default:
			fmt.Fprintf(&sb, "%s q[%d];\n", gateType, gate.Target)
		}
	}

	return sb.String()
}

// ParseQASM parses the OpenQASM 2.0 subset written by ToQASM for numeric
// circuits. Unknown statements and symbolic angles are rejected.
func ParseQASM(qasm string) (Circuit, error) {
	var gates []Gate
	numQubits := -1

	for n, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") ||
			strings.HasPrefix(line, "barrier") {
			continue
		}
		if strings.HasPrefix(line, "qreg") {
			if matches := qregRegex.FindStringSubmatch(line); len(matches) > 2 {
				numQubits, _ = strconv.Atoi(matches[2])
			}
			continue
		}

		gate, err := parseGateLine(line)
		if err != nil {
			return Circuit{}, fmt.Errorf("line %d: %w", n+1, err)
		}
		if q := max(gate.Target, gate.Control); numQubits >= 0 && q >= numQubits {
			return Circuit{}, fmt.Errorf("%w: line %d: q[%d] outside qreg of %d", ErrParse, n+1, q, numQubits)
		}
		gates = append(gates, gate)
	}

	return Circuit{Gates: gates}, nil
}

func parseGateLine(line string) (Gate, error) {
	// Two-qubit gates: cx, cz, swap
	if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
		gateType := strings.ToUpper(matches[1])
		if !qasmTwoQubitGates[gateType] {
			return Gate{}, fmt.Errorf("%w: unsupported gate %q", ErrParse, matches[1])
		}
		control, _ := strconv.Atoi(matches[2])
		target, _ := strconv.Atoi(matches[3])
		return Gate{Type: gateType, Target: target, Control: control}, nil
	}

	// Rotations: rx, ry, rz
	if matches := singleGateParamRegex.FindStringSubmatch(line); matches != nil {
		gateType := strings.ToUpper(matches[1])
		if !qasmRotationGates[gateType] {
			return Gate{}, fmt.Errorf("%w: unsupported gate %q", ErrParse, matches[1])
		}
		theta, ok := parseParamExpr(matches[2])
		if !ok {
			return Gate{}, fmt.Errorf("%w: invalid angle %q", ErrParse, matches[2])
		}
		target, _ := strconv.Atoi(matches[3])
		return Gate{Type: gateType, Target: target, Control: -1, Params: []Expr{Num(theta)}}, nil
	}

	// Single-qubit gates: h, x, y, z
	if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
		gateType := strings.ToUpper(matches[1])
		if !qasmSingleGates[gateType] {
			return Gate{}, fmt.Errorf("%w: unsupported gate %q", ErrParse, matches[1])
		}
		target, _ := strconv.Atoi(matches[2])
		return Gate{Type: gateType, Target: target, Control: -1}, nil
	}

	return Gate{}, fmt.Errorf("%w: unrecognized statement %q", ErrParse, line)
}
