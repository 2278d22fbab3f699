// Copyright (c) 2026 WJQserver, Kamihama Railway Group. All rights reserved.
// Licensed under the GNU Affero General Public License, version 3.0 (the "AGPL").

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	stratcomm "github.com/kamihama-railway/stratcomm"
)

func main() {
	var (
		backend   string
		optLevel  int
		printIR   bool
		viewCFG   bool
		verbosity string
	)

	rootCmd := &cobra.Command{
		Use:   "stratcomm <file>",
		Short: "Run a Strategic Communication program",
		Long: `Executes a Strategic Communication source file through either the
line interpreter or the compiled backend.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			initLogger(verbosity)

			opts := stratcomm.Options{
				PrintIR: printIR,
				ViewCFG: viewCFG,
			}
			switch backend {
			case "interp", "interpreter":
				opts.Backend = stratcomm.BackendInterpreter
			case "compile", "compiler":
				opts.Backend = stratcomm.BackendCompiler
			default:
				fmt.Fprintf(os.Stderr, "error: unknown backend %q\n", backend)
				os.Exit(2)
			}
			if optLevel < 0 || optLevel > 3 {
				fmt.Fprintf(os.Stderr, "error: optimization level must be 0-3, got %d\n", optLevel)
				os.Exit(2)
			}
			opts.OptLevel = stratcomm.OptLevel(optLevel)

			source, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: cannot open %s: %v\n", args[0], err)
				os.Exit(1)
			}

			if err := stratcomm.Run(args[0], string(source), opts); err != nil {
				var le *stratcomm.LineError
				if errors.As(err, &le) {
					fmt.Fprintln(os.Stderr, err)
				} else {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
				}
				os.Exit(1)
			}
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(&backend, "backend", "interp", "Execution backend: interp or compile")
	rootCmd.Flags().IntVarP(&optLevel, "opt", "O", 0, "Optimization level 0-3 (compile backend)")
	rootCmd.Flags().BoolVar(&printIR, "print-ir", false, "Print the lowered program (compile backend)")
	rootCmd.Flags().BoolVar(&viewCFG, "view-cfg", false, "Print the control-flow graph (compile backend)")
	rootCmd.Flags().StringVar(&verbosity, "verbosity", "warn", "Log level: debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func initLogger(verbosity string) {
	level := slog.LevelWarn
	switch verbosity {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
