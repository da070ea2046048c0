// Command golox is a tree-walking interpreter for Lox. Run with no arguments for an interactive REPL, or with a
// single path argument to run a script file once.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"github.com/ckoval/golox/interpreter"
	"github.com/ckoval/golox/internal/loxerr"
	"github.com/ckoval/golox/parser"
	"github.com/ckoval/golox/resolver"
)

func main() {
	switch len(os.Args) {
	case 1:
		runREPL()
	case 2:
		runFile(os.Args[1])
	default:
		fmt.Fprintln(os.Stderr, "Usage: golox [script]")
		os.Exit(64)
	}
}

func runFile(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	errs := loxerr.New(os.Stderr)
	in := interpreter.New(errs)

	ok := run(path, src, errs, in)
	switch {
	case errs.SyntaxErrorSeen:
		os.Exit(65)
	case errs.RuntimeErrorSeen:
		os.Exit(70)
	case !ok:
		os.Exit(70)
	}
}

func runREPL() {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     historyFilePath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rl.Close()

	errs := loxerr.New(os.Stderr)
	in := interpreter.New(errs, interpreter.REPLMode())

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		errs.Reset()
		run("<stdin>", []byte(line), errs, in)
	}
}

func historyFilePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return dir + "/golox_history"
}

// run executes one chunk of source through the full pipeline: scan -> parse -> resolve -> evaluate. It reports
// true if the program ran to completion without a syntax or runtime error being reported.
func run(name string, src []byte, errs *loxerr.Reporter, in *interpreter.Interpreter) bool {
	prog := parser.Parse(name, src, errs)
	if errs.SyntaxErrorSeen {
		return false
	}

	resolutions := resolver.Resolve(prog, errs)
	if errs.SyntaxErrorSeen {
		return false
	}

	in.Run(prog, resolutions)
	return !errs.RuntimeErrorSeen
}
