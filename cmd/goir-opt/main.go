// goir-opt parses a textual document, optionally verifies it, runs the
// requested rewrite passes and prints the result in canonical form.
//
// Usage:
//
//	goir-opt [flags] [input.ir]
//
// With no input file the document is read from standard input.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goir/goir"
	"github.com/goir/goir/dialects/arith"
	"github.com/goir/goir/ir"
	"github.com/goir/goir/passes/streamlower"
	"github.com/goir/goir/rewrite"
	"github.com/goir/goir/text"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// registeredPasses maps pass names accepted by --pass to constructors.
var registeredPasses = map[string]func() *rewrite.Pass{
	"fold-constants": func() *rewrite.Pass {
		return &rewrite.Pass{Name: "fold-constants", Patterns: arith.FoldPatterns()}
	},
	"stream-to-loops": streamlower.Pass,
}

func passNames() []string {
	names := make([]string, 0, len(registeredPasses))
	for name := range registeredPasses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newRootCmd() *cobra.Command {
	var (
		output    string
		verify    bool
		passes    []string
		debugOpts bool
	)

	cmd := &cobra.Command{
		Use:   "goir-opt [input.ir]",
		Short: "Parse, verify, transform and reprint an ir document",
		Long: "goir-opt reads one textual document, verifies it against the standard\n" +
			"dialects, runs the requested rewrite passes in order and prints the\n" +
			"canonical form.\n\nAvailable passes: " + strings.Join(passNames(), ", "),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readInput(args)
			if err != nil {
				return err
			}
			result, err := run(source, verify, passes, debugOpts)
			if err != nil {
				reportError(cmd.ErrOrStderr(), err)
				return err
			}
			return writeOutput(output, result)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().BoolVar(&verify, "verify", true, "verify the document before and after the passes")
	cmd.Flags().StringArrayVar(&passes, "pass", nil, "run this pass; repeatable, order is preserved")
	cmd.Flags().BoolVar(&debugOpts, "debug-verify", false, "re-verify the document after every applied rewrite")
	return cmd
}

func run(source string, verify bool, passes []string, debugVerify bool) (string, error) {
	reg := goir.DefaultRegistry()
	module, err := goir.Parse(source, reg)
	if err != nil {
		return "", err
	}
	if verify {
		if err := goir.Verify(module, reg); err != nil {
			return "", err
		}
	}

	opts := rewrite.DefaultOptions()
	opts.DebugVerify = debugVerify
	opts.Registry = reg
	for _, name := range passes {
		ctor, ok := registeredPasses[name]
		if !ok {
			return "", fmt.Errorf("unknown pass %q (available: %s)", name, strings.Join(passNames(), ", "))
		}
		if err := ctor().Run(module, opts); err != nil {
			return "", fmt.Errorf("pass %q: %w", name, err)
		}
	}

	if verify && len(passes) > 0 {
		if err := goir.Verify(module, reg); err != nil {
			return "", err
		}
	}
	return goir.Print(module, reg), nil
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeOutput(path, result string) error {
	if path == "" {
		_, err := os.Stdout.WriteString(result)
		return err
	}
	return os.WriteFile(path, []byte(result), 0o644)
}

// reportError prints rich context where the error carries any: source
// excerpts for parse errors, the full diagnostic list for verification
// failures.
func reportError(w io.Writer, err error) {
	var perr *text.ParseError
	if errors.As(err, &perr) {
		fmt.Fprintln(w, perr.FormatWithContext())
		return
	}
	var verr *ir.VerificationError
	if errors.As(err, &verr) {
		fmt.Fprintln(w, verr.FormatAll())
		return
	}
	fmt.Fprintln(w, "error:", err)
}
