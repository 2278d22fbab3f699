// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package stratcomm

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// BackendKind selects which of the two execution backends runs a program.
type BackendKind int

const (
	BackendInterpreter BackendKind = iota
	BackendCompiler
)

func (k BackendKind) String() string {
	if k == BackendCompiler {
		return "compiler"
	}
	return "interpreter"
}

// Options configures one run. The zero value interprets the program with
// the default runtime and no optimization.
type Options struct {
	Backend  BackendKind
	OptLevel OptLevel
	PrintIR  bool
	ViewCFG  bool

	// Runtime supplies the native support routines; nil means stdin,
	// stdout and the default random source.
	Runtime *Runtime

	// IRWriter receives the --print-ir and --view-cfg output; nil means
	// stderr.
	IRWriter io.Writer
}

// NormalizeSource splits raw source text into the line form the core
// expects: surrounding whitespace trimmed, case folded to lowercase, blank
// lines discarded.
func NormalizeSource(src string) []string {
	var lines []string
	for _, line := range strings.Split(src, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Run normalizes the source, constructs the program and executes it once
// through the selected backend. Both backends produce identical printed
// output for identical programs and input streams.
func Run(name, src string, opts Options) error {
	rt := opts.Runtime
	if rt == nil {
		rt = DefaultRuntime()
	}

	program, err := NewProgram(name, NormalizeSource(src))
	if err != nil {
		return err
	}
	slog.Debug("program constructed", "name", name, "lines", program.LineCount(), "backend", opts.Backend.String())

	if opts.Backend != BackendCompiler {
		if opts.PrintIR || opts.ViewCFG {
			slog.Debug("ir output flags only apply to the compiler backend", "backend", opts.Backend.String())
		}
		return NewInterpreter(program, rt).Run()
	}

	fn, err := Compile(program)
	if err != nil {
		return err
	}
	Optimize(fn, opts.OptLevel)

	w := opts.IRWriter
	if w == nil {
		w = os.Stderr
	}
	if opts.PrintIR {
		fmt.Fprint(w, fn.Render())
	}
	if opts.ViewCFG {
		fmt.Fprint(w, fn.Tree().String())
	}

	return RunFunction(fn, rt)
}
