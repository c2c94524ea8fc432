// Package repl implements the read-eval-print loop cmd/xlfp drops into, plus
// the JSON binding decoder and result renderer both the REPL and the one-
// shot eval command share.
//
// Grounded on the teacher's own internal/repl/repl.go: a bufio.Scanner loop
// that prints a prompt, reads one line, and runs it through the same
// pipeline a file would go through — generalized here from "compile and run
// on the vm" to "parse and invoke against an empty binding map".
package repl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"xlfp/value"
	"xlfp/xlfp"
)

// Run reads formulas from in, one per line, evaluating each against an
// empty binding map and printing its result to out. "exit" or "quit" ends
// the loop, matching the teacher's REPL's own exit keyword.
func Run(in io.Reader, out io.Writer) {
	parser := xlfp.NewParser(xlfp.Options{})
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, ">>> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line == "exit" || line == "quit" {
			return
		}
		if line == "" {
			fmt.Fprint(out, ">>> ")
			continue
		}
		result := parser.Parse(line)
		if result.Error != nil {
			fmt.Fprintln(out, result.Error.Error())
		} else {
			fmt.Fprintln(out, Render(result.Result.Invoke(nil)))
		}
		fmt.Fprint(out, ">>> ")
	}
}

// Render formats a Value the way a spreadsheet cell would display it:
// numbers in shortest round-trip form, TRUE/FALSE for booleans, an error's
// code for an error, and an array as a bracketed comma list.
func Render(v value.Value) string {
	switch {
	case value.IsError(v):
		return value.AsError(v).Error()
	case value.IsArray(v):
		elems := value.AsArray(v)
		out := "{"
		for i, el := range elems {
			if i > 0 {
				out += ", "
			}
			out += Render(el)
		}
		return out + "}"
	default:
		text, err := value.ToText(v)
		if err != nil {
			return err.Error()
		}
		return text
	}
}

// DecodeBindings parses a JSON object of the form {"A1": 3, "name": "abc"}
// into a binding map, the shape cmd/xlfp's "eval" command expects for its
// optional bindings file argument. JSON arrays become rank-1 Arrays, null
// becomes Blank, and numbers/strings/bools map onto the matching Value
// constructor directly.
func DecodeBindings(r io.Reader) (map[string]value.Value, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	out := make(map[string]value.Value, len(raw))
	for k, msg := range raw {
		v, err := decodeValue(msg)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func decodeValue(msg json.RawMessage) (value.Value, error) {
	var generic interface{}
	if err := json.Unmarshal(msg, &generic); err != nil {
		return value.Value{}, err
	}
	return fromGeneric(generic)
}

func fromGeneric(generic interface{}) (value.Value, error) {
	switch g := generic.(type) {
	case nil:
		return value.Blank(), nil
	case bool:
		return value.Bool(g), nil
	case float64:
		return value.Number(g), nil
	case json.Number:
		n, err := strconv.ParseFloat(g.String(), 64)
		if err != nil {
			return value.Value{}, err
		}
		return value.Number(n), nil
	case string:
		return value.Text(g), nil
	case []interface{}:
		elems := make([]value.Value, len(g))
		for i, el := range g {
			v, err := fromGeneric(el)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = v
		}
		return value.Array(elems), nil
	default:
		return value.Value{}, fmt.Errorf("unsupported JSON value %v", generic)
	}
}
