// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package stratcomm

import (
	"fmt"
	"strings"
)

// NumRegisters is the number of storage slots a program can address.
const NumRegisters = 8

// registerNames lists the eight registers in slot order. The compiled
// backend uses the position in this array as the register's slot index.
var registerNames = [NumRegisters]string{
	"customer experience",
	"revenue streams",
	"core competencies",
	"best practices",
	"stakeholder engagement",
	"key performance indicators",
	"return on investment",
	"assets",
}

type digitName struct {
	name  string
	digit int32
}

// digitNames maps literal phrases to the decimal digits they stand for.
var digitNames = []digitName{
	{"hr", 0},
	{"engineering", 1},
	{"legal", 2},
	{"pr", 3},
	{"finance", 4},
	{"marketing", 5},
	{"r&d", 6},
	{"sales", 7},
	{"manufacturing", 8},
	{"executive management", 9},
}

// operandConnectors may appear between two operands.
var operandConnectors = []string{" and ", " with ", " to "}

// literalConnectors may appear between the digits of one literal.
// ", and " must be tried before ", " so the longer phrase wins.
var literalConnectors = []string{", and ", " and ", ", "}

// labelPrefixes open a label-definition line; the rest of the line is the
// label's name.
var labelPrefixes = []string{"moving forward, ", "going forward, "}

func registerSlot(name string) (uint8, bool) {
	for i, r := range registerNames {
		if r == name {
			return uint8(i), true
		}
	}
	return 0, false
}

func isRegisterName(name string) bool {
	_, ok := registerSlot(name)
	return ok
}

func digitValue(name string) (int32, bool) {
	for _, d := range digitNames {
		if d.name == name {
			return d.digit, true
		}
	}
	return 0, false
}

func init() {
	assertPrefixFree("register", registerNames[:])
	names := make([]string, len(digitNames))
	for i, d := range digitNames {
		names[i] = d.name
	}
	assertPrefixFree("digit", names)
}

// assertPrefixFree guarantees greedy lexing stays deterministic: no name in
// a name set may be a prefix of another.
func assertPrefixFree(kind string, names []string) {
	for i, a := range names {
		for j, b := range names {
			if i != j && strings.HasPrefix(a, b) {
				panic(fmt.Sprintf("%s name %q is a prefix of %q", kind, b, a))
			}
		}
	}
}
