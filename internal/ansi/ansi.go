// Package ansi formats output text using ANSI escape sequences by wrapping the [fmt] package.
//
// Format strings (or string arguments to functions which don't accept a format string) can contain placeholders of
// the form ${NAME}, where NAME is the name of an ANSI code. The placeholder is replaced with the corresponding ANSI
// escape sequence in the output, or with the empty string if Enabled is false.
package ansi

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var ansiCodes = map[string]int{
	"RESET":   0,
	"BOLD":    1,
	"FAINT":   2,
	"BLACK":   30,
	"RED":     31,
	"GREEN":   32,
	"YELLOW":  33,
	"BLUE":    34,
	"MAGENTA": 35,
	"CYAN":    36,
	"WHITE":   37,
	"DEFAULT": 39,
}

var ansiReplacer, emptyReplacer *strings.Replacer

func init() {
	var ansiOldnew, emptyOldnew []string
	for name, code := range ansiCodes {
		ansiOldnew = append(ansiOldnew, fmt.Sprintf("${%s}", name), fmt.Sprintf("\x1b[%dm", code))
		emptyOldnew = append(emptyOldnew, fmt.Sprintf("${%s}", name), "")
	}
	ansiReplacer = strings.NewReplacer(ansiOldnew...)
	emptyReplacer = strings.NewReplacer(emptyOldnew...)
}

// Enabled reports whether ANSI escape sequences will be emitted. True only when both stdout and stderr are
// connected to a terminal, so redirected output (including test harnesses) is never polluted with escape codes.
var Enabled = term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))

func replace(s string) string {
	if Enabled {
		return ansiReplacer.Replace(s)
	}
	return emptyReplacer.Replace(s)
}

func replaceArgs(a []any) []any {
	for i, arg := range a {
		if s, ok := arg.(string); ok {
			a[i] = replace(s)
		}
	}
	return a
}

// Sprint formats using the default formats for its operands, replacing ${NAME} placeholders, and returns the string.
func Sprint(a ...any) string {
	return fmt.Sprint(replaceArgs(a)...)
}

// Fprint is like Sprint but writes to w.
func Fprint(w io.Writer, a ...any) (int, error) {
	return fmt.Fprint(w, replaceArgs(a)...)
}

// Sprintf formats according to a format specifier, replacing ${NAME} placeholders, and returns the string.
func Sprintf(format string, a ...any) string {
	return replace(fmt.Sprintf(format, a...))
}
