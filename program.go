// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package stratcomm

import (
	"sort"
	"strings"
)

// Program is an immutable compiled-in representation of one source file:
// the normalized lines plus a table of label definitions. Lines reaching a
// Program are already trimmed, lowercased and blank-free.
type Program struct {
	name   string
	lines  []string
	labels map[string]int
}

// NewProgram scans the lines once and records every label definition.
// Defining the same label twice is a construction error; it cites both the
// original and the colliding line.
func NewProgram(name string, lines []string) (*Program, error) {
	labels := make(map[string]int)
	for i, line := range lines {
		label, ok := labelName(line)
		if !ok {
			continue
		}
		if first, dup := labels[label]; dup {
			return nil, &DuplicateLabelError{Label: label, First: first, Second: i}
		}
		labels[label] = i
	}
	return &Program{name: name, lines: lines, labels: labels}, nil
}

// labelName strips a label-definition prefix, if the line has one.
func labelName(line string) (string, bool) {
	for _, p := range labelPrefixes {
		if strings.HasPrefix(line, p) {
			return line[len(p):], true
		}
	}
	return "", false
}

func (p *Program) Name() string {
	return p.name
}

func (p *Program) Line(i int) string {
	return p.lines[i]
}

func (p *Program) LineCount() int {
	return len(p.lines)
}

// LabelLine reports the 0-indexed line a label is defined on.
func (p *Program) LabelLine(name string) (int, bool) {
	line, ok := p.labels[name]
	return line, ok
}

type labelDef struct {
	name string
	line int
}

// labelsByLine returns all label definitions ordered by defining line. The
// compiled backend allocates one basic block per entry in this order.
func (p *Program) labelsByLine() []labelDef {
	defs := make([]labelDef, 0, len(p.labels))
	for name, line := range p.labels {
		defs = append(defs, labelDef{name: name, line: line})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].line < defs[j].line })
	return defs
}
