package builtins

import (
	"strings"
	"unicode"

	"xlfp/registry"
	"xlfp/value"
	"xlfp/xlerror"
)

func registerText(r *registry.Registry) {
	r.Register([]string{"CHAR"}, charFn, registry.Fixed(1))
	r.Register([]string{"CODE"}, codeFn, registry.Fixed(1))
	r.Register([]string{"LEN"}, lenFn, registry.Fixed(1))
	r.Register([]string{"LOWER"}, lowerFn, registry.Fixed(1))
	r.Register([]string{"UPPER"}, upperFn, registry.Fixed(1))
	r.Register([]string{"PROPER"}, properFn, registry.Fixed(1))
	r.Register([]string{"CLEAN"}, cleanFn, registry.Fixed(1))
	r.Register([]string{"SUBSTITUTE"}, substituteFn, registry.Fixed(3))
	r.Register([]string{"CONCAT"}, concatFn, registry.Variadic)
	r.Register([]string{"TEXTJOIN"}, textJoinFn, registry.Fixed(3))
}

func charFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	if err := scalarOnly(args...); err != nil {
		return value.Error(err)
	}
	n, err := value.ToNumber(args[0])
	if err != nil {
		return value.Error(err)
	}
	if n < 0 || n > 0x10FFFF {
		return value.Error(xlerror.ErrValue)
	}
	return value.Text(string(rune(int(n))))
}

func codeFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	if err := scalarOnly(args...); err != nil {
		return value.Error(err)
	}
	t, err := value.ToText(args[0])
	if err != nil {
		return value.Error(err)
	}
	runes := []rune(t)
	if len(runes) == 0 {
		return value.Error(xlerror.ErrValue)
	}
	return value.Number(float64(runes[0]))
}

func lenFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	if err := scalarOnly(args...); err != nil {
		return value.Error(err)
	}
	t, err := value.ToText(args[0])
	if err != nil {
		return value.Error(err)
	}
	return value.Number(float64(len([]rune(t))))
}

func lowerFn(args []value.Value) value.Value  { return caseFn(args, strings.ToLower) }
func upperFn(args []value.Value) value.Value  { return caseFn(args, strings.ToUpper) }
func properFn(args []value.Value) value.Value { return caseFn(args, properCase) }

func caseFn(args []value.Value, transform func(string) string) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	if err := scalarOnly(args...); err != nil {
		return value.Error(err)
	}
	t, err := value.ToText(args[0])
	if err != nil {
		return value.Error(err)
	}
	return value.Text(transform(t))
}

// properCase title-cases each run of letters, the spreadsheet PROPER()
// convention ("mary ann smith" -> "Mary Ann Smith").
func properCase(s string) string {
	var sb strings.Builder
	startOfWord := true
	for _, r := range s {
		if unicode.IsLetter(r) {
			if startOfWord {
				sb.WriteRune(unicode.ToUpper(r))
			} else {
				sb.WriteRune(unicode.ToLower(r))
			}
			startOfWord = false
		} else {
			sb.WriteRune(r)
			startOfWord = true
		}
	}
	return sb.String()
}

func cleanFn(args []value.Value) value.Value {
	return caseFn(args, func(s string) string {
		return strings.Map(func(r rune) rune {
			if unicode.IsControl(r) {
				return -1
			}
			return r
		}, s)
	})
}

func substituteFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	if err := scalarOnly(args...); err != nil {
		return value.Error(err)
	}
	text, err := value.ToText(args[0])
	if err != nil {
		return value.Error(err)
	}
	old, err := value.ToText(args[1])
	if err != nil {
		return value.Error(err)
	}
	newText, err := value.ToText(args[2])
	if err != nil {
		return value.Error(err)
	}
	if old == "" {
		return value.Text(text)
	}
	return value.Text(strings.ReplaceAll(text, old, newText))
}

func concatFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	if err := scalarOnly(args...); err != nil {
		return value.Error(err)
	}
	var sb strings.Builder
	for _, a := range args {
		t, err := value.ToText(a)
		if err != nil {
			return value.Error(err)
		}
		sb.WriteString(t)
	}
	return value.Text(sb.String())
}

// textJoinFn implements TEXTJOIN(delimiter, skip_blanks, values): values is
// either a single scalar or an array literal (spec.md's seed scenarios pass
// an array literal as the third slot). A Blank element is elided when
// skip_blanks is TRUE, emitted as an empty field otherwise.
func textJoinFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	sep, err := value.ToText(args[0])
	if err != nil {
		return value.Error(err)
	}
	skipBlanks, err := value.ToBool(args[1])
	if err != nil {
		return value.Error(err)
	}
	var elements []value.Value
	if value.IsArray(args[2]) {
		elements = value.AsArray(args[2])
	} else {
		elements = []value.Value{args[2]}
	}
	var parts []string
	for _, el := range elements {
		if value.IsError(el) {
			return el
		}
		if value.IsBlank(el) {
			if skipBlanks {
				continue
			}
			parts = append(parts, "")
			continue
		}
		t, terr := value.ToText(el)
		if terr != nil {
			return value.Error(terr)
		}
		parts = append(parts, t)
	}
	return value.Text(strings.Join(parts, sep))
}
