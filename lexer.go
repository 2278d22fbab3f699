// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package stratcomm

import (
	"fmt"
	"strings"
)

type OperandKind byte

const (
	OperandRegister OperandKind = iota
	OperandLiteral
	OperandLabel
)

func (k OperandKind) String() string {
	switch k {
	case OperandRegister:
		return "register"
	case OperandLiteral:
		return "literal"
	case OperandLabel:
		return "label"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", k)
	}
}

// Operand is one parsed instruction operand: a register reference, a
// decoded literal value, or a label reference.
type Operand struct {
	Kind  OperandKind
	Name  string // register or label name
	Value int32  // literal value
}

func (o Operand) String() string {
	if o.Kind == OperandLiteral {
		return fmt.Sprintf("literal %d", o.Value)
	}
	return fmt.Sprintf("%s %q", o.Kind, o.Name)
}

// ParseOperands lexes an instruction residual (keyword already stripped)
// into typed operands. Register and digit names are matched greedily at the
// front of the remaining text; anything that matches neither set is the
// name of a label and ends the scan.
func ParseOperands(residual string) []Operand {
	var operands []Operand
	rest := residual
outer:
	for rest != "" {
		for _, name := range registerNames {
			if strings.HasPrefix(rest, name) {
				operands = append(operands, Operand{Kind: OperandRegister, Name: name})
				rest = trimConnector(rest[len(name):], operandConnectors)
				continue outer
			}
		}

		if _, _, ok := leadingDigitName(rest); ok {
			var value int32
			value, rest = parseLiteral(rest)
			operands = append(operands, Operand{Kind: OperandLiteral, Value: value})
			rest = trimConnector(rest, operandConnectors)
			continue
		}

		// Neither a register nor a literal, so the whole tail is a label.
		operands = append(operands, Operand{Kind: OperandLabel, Name: rest})
		break
	}
	return operands
}

// parseLiteral decodes a run of adjacent digit names into one value,
// most significant digit first, and returns the new residual. Decoding
// stops at the first token that is not a known digit name.
func parseLiteral(rest string) (int32, string) {
	var digits []int32
	for {
		digit, name, ok := leadingDigitName(rest)
		if !ok {
			break
		}
		digits = append(digits, digit)
		rest = trimConnector(rest[len(name):], literalConnectors)
	}

	var combined int32
	for _, d := range digits {
		combined = combined*10 + d
	}
	return combined, rest
}

func leadingDigitName(s string) (int32, string, bool) {
	for _, d := range digitNames {
		if strings.HasPrefix(s, d.name) {
			return d.digit, d.name, true
		}
	}
	return 0, "", false
}

// trimConnector removes at most one leading connector phrase. Connectors
// are tried in order so longer phrases shadow their own suffixes.
func trimConnector(s string, connectors []string) string {
	for _, c := range connectors {
		if strings.HasPrefix(s, c) {
			return s[len(c):]
		}
	}
	return s
}
