package main

import (
	"fmt"
	"os"
)

func modeCommandLabel(mode executionMode) string {
	switch mode {
	case modeCheck:
		return "libinterp check"
	default:
		return "libinterp run"
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  libinterp [flags] run <program.yml>")
	fmt.Fprintln(os.Stderr, "  libinterp [flags] run git+<url>#<program.yml>[@rev]")
	fmt.Fprintln(os.Stderr, "  libinterp [flags] <program.yml>")
	fmt.Fprintln(os.Stderr, "  libinterp [flags] check <program.yml>")
	fmt.Fprintln(os.Stderr, "  libinterp [flags] repl")
	fmt.Fprintln(os.Stderr, "  libinterp builtins")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  --config <path>          use this libinterp.yml instead of searching for one")
	fmt.Fprintln(os.Stderr, "  --require-declaration    reading an undeclared variable is an error")
	fmt.Fprintln(os.Stderr, "  --arg <name=value>       bind a root variable (repeatable)")
	fmt.Fprintln(os.Stderr, "  --log-level <level>      debug, info, warn or error")
	fmt.Fprintln(os.Stderr, "  --locale <locale>        locale for format_number and format_date")
}
