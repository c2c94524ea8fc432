// cmd/xlfp is a thin command-line driver over the xlfp package: eval a
// single formula against a JSON binding map, or drop into a REPL that does
// the same one line at a time.
//
// Grounded on the teacher's cmd/sentra/main.go command-alias dispatch (a
// small, fixed command set with a short alias each) and
// internal/repl/repl.go's bufio.Scanner read-eval-print loop, both scaled
// down to the two commands this engine needs.
package main

import (
	"fmt"
	"log"
	"os"

	"xlfp/internal/repl"
	"xlfp/value"
	"xlfp/xlfp"
)

var commandAliases = map[string]string{
	"e": "eval",
	"i": "repl",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "eval":
		if err := runEval(args[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "repl":
		repl.Run(os.Stdin, os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`xlfp - a spreadsheet formula evaluator

Usage:
  xlfp eval <formula> [bindings.json]   evaluate a formula once and print the result
  xlfp repl                             read formulas from stdin, one per line
  xlfp help                             show this message

Aliases: e=eval, i=repl`)
}

func runEval(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("eval requires a formula argument")
	}
	formula := args[0]

	bindings := map[string]value.Value{}
	if len(args) > 1 {
		loaded, err := loadBindings(args[1])
		if err != nil {
			return err
		}
		bindings = loaded
	}

	parser := xlfp.NewParser(xlfp.Options{})
	result := parser.Parse(formula)
	if result.Error != nil {
		fmt.Println(result.Error.Error())
		return nil
	}
	out := result.Result.Invoke(bindings)
	fmt.Println(repl.Render(out))
	return nil
}

func loadBindings(path string) (map[string]value.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return repl.DecodeBindings(f)
}
