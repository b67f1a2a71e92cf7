// cmd/verifyc/main.go
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"verifyc/internal/circuit"
	"verifyc/internal/circuit/smtlib"
	"verifyc/internal/parser"
	"verifyc/internal/printer"
	"verifyc/internal/syntax"
	"verifyc/internal/vcgen"
	"verifyc/internal/verrors"
)

var commandAliases = map[string]string{
	"c": "compile",
	"v": "verify",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return
	}

	switch cmd {
	case "compile":
		runCompile(args[1:])
	case "verify":
		runVerify(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("verifyc - a tiny verifying compiler")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  verifyc compile <file>                  Print the parsed source back out (alias: c)")
	fmt.Println("  verifyc verify <file> [--solver-path P]  Discharge every obligation (alias: v)")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --solver-path <path>   Path to the SMT-LIB 2 solver binary (default: z3)")
	fmt.Println("  --verbose              Print one line per obligation outcome")
}

func runCompile(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: compile requires a source file")
		os.Exit(1)
	}
	filename := args[0]

	heap, decls, err := parseFile(filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Print(printer.New(heap).Print(decls))
}

func runVerify(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: verify requires a source file")
		os.Exit(1)
	}

	filename := args[0]
	solverPath := "z3"
	verbose := false

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--solver-path":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --solver-path requires a value")
				os.Exit(1)
			}
			i++
			solverPath = args[i]
		case "--verbose":
			verbose = true
		}
	}

	heap, decls, err := parseFile(filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	backend := smtlib.NewBackend(solverPath)
	verifier := vcgen.New(heap, backend)

	var outcomes []circuit.Outcome
	func() {
		defer func() {
			if r := recover(); r != nil {
				reportPanic(r)
			}
		}()
		circ := verifier.ToCircuit(decls)
		outcomes = circ.Check()
	}()

	invalid, unknown := 0, 0
	for i, o := range outcomes {
		if verbose {
			fmt.Printf("obligation %d: %s\n", i+1, o)
		}
		switch o {
		case circuit.Invalid:
			invalid++
		case circuit.Unknown:
			unknown++
		}
	}

	summary := fmt.Sprintf("verified %d check(s): %d invalid, %d unknown", len(outcomes), invalid, unknown)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		color := "\x1b[32m" // green
		if invalid > 0 {
			color = "\x1b[31m" // red
		} else if unknown > 0 {
			color = "\x1b[33m" // yellow
		}
		fmt.Printf("%s%s\x1b[0m\n", color, summary)
	} else {
		fmt.Println(summary)
	}

	if invalid > 0 || unknown > 0 {
		os.Exit(1)
	}
}

// parseFile reads and parses filename, converting a parser panic back
// into a returned error (spec.md §7: input errors bubble up to the CLI
// boundary; invariant violations are fatal but still reported, not
// silently crashed).
func parseFile(filename string) (heap *syntax.Arena, decls []int, err error) {
	source, readErr := os.ReadFile(filename)
	if readErr != nil {
		return nil, nil, fmt.Errorf("could not read %s: %w", filename, readErr)
	}

	var p *parser.Parser
	var parseErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(*verrors.Error); ok {
					parseErr = e
					return
				}
				parseErr = fmt.Errorf("%v", r)
			}
		}()
		p = parser.New(string(source), filename)
		decls = p.Parse()
	}()
	if parseErr != nil {
		return nil, nil, parseErr
	}
	return p.Heap, decls, nil
}

func reportPanic(r interface{}) {
	if e, ok := r.(*verrors.Error); ok {
		fmt.Fprintln(os.Stderr, e.Error())
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", r)
	os.Exit(1)
}
